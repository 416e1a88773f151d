package calendar

// Dialog is the single current dialog of the calendar. Modeling this as one
// tagged value keeps the dialog states mutually exclusive by construction
// instead of by convention across independent open/closed flags.
type Dialog int

const (
	DialogNone Dialog = iota
	DialogManage
	DialogDeleteConfirm
	DialogDeleteOptions
	DialogClash
	DialogViewBooked
)

func (d Dialog) String() string {
	switch d {
	case DialogManage:
		return "manage"
	case DialogDeleteConfirm:
		return "deleteConfirm"
	case DialogDeleteOptions:
		return "deleteOptions"
	case DialogClash:
		return "clash"
	case DialogViewBooked:
		return "viewBooked"
	default:
		return "none"
	}
}
