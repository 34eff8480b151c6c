// Package store holds the client-side state for each bounded concern of the
// dayplan UI: the task library, templates and the template builder, the daily
// dashboard, adhoc tasks, labels, the profile and the auth session.
//
// Stores cache server responses in memory and expose derived views plus
// mutation methods. They own their slices exclusively; the UI reads through
// accessors and mutates only via store methods. Cross-store reads (the
// dashboard consulting the templates store for weekday coverage) are explicit
// constructor-injected references, never ambient lookups.
package store

// ToastKind classifies a toast notification.
type ToastKind string

const (
	ToastSuccess ToastKind = "success"
	ToastError   ToastKind = "error"
	ToastInfo    ToastKind = "info"
	ToastWarning ToastKind = "warning"
)

// UI is the notification surface stores talk to: transient toasts and
// blocking confirmation dialogs. The TUI and the CLI each provide their own
// implementation; tests inject fakes.
type UI interface {
	Toast(kind ToastKind, msg string)
	Confirm(title, body string) bool
}

// NopUI discards toasts and answers yes to every confirmation.
type NopUI struct{}

func (NopUI) Toast(ToastKind, string)     {}
func (NopUI) Confirm(string, string) bool { return true }

// Recorder receives a record of every mutation a store performed, for the
// local activity log. Stores never consult recorded state.
type Recorder interface {
	Record(typ, entityID string, payload any)
}

// nopRecorder backs stores constructed without a Recorder.
type nopRecorder struct{}

func (nopRecorder) Record(string, string, any) {}

func orNopRecorder(r Recorder) Recorder {
	if r == nil {
		return nopRecorder{}
	}
	return r
}

func orNopUI(ui UI) UI {
	if ui == nil {
		return NopUI{}
	}
	return ui
}

// status is the common loading/error state every store embeds.
type status struct {
	loading bool
	err     error
	inited  bool
}

// begin marks a load in flight and returns the cleanup that must run on
// every exit path (callers defer it), so loading always clears whatever the
// outcome.
func (s *status) begin() func() {
	s.loading = true
	s.err = nil
	return func() { s.loading = false }
}

// Loading reports whether a load is in flight.
func (s *status) Loading() bool { return s.loading }

// Err returns the last load failure, cleared when the next load starts.
func (s *status) Err() error { return s.err }
