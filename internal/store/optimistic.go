package store

// optimistic runs a local-first mutation: capture a restore closure for the
// exact fields about to change, apply the local mutation, then run the
// network call. On failure the restore runs before the error is returned, so
// state reverts to the values from immediately before this attempt.
//
// Every optimistic mutation in this package goes through here; stores only
// supply the snapshot/mutate/call triple.
func optimistic(snapshot func() (restore func()), mutate func(), call func() error) error {
	restore := snapshot()
	mutate()
	if err := call(); err != nil {
		restore()
		return err
	}
	return nil
}
