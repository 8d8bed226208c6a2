package iview

// ActionDefinition names one session command a front-end can bind to keys,
// buttons or gestures, with a human-readable description for help screens.
type ActionDefinition struct {
	Name        string
	Description string
}

// actionDefinitions contains every bindable session command.
var actionDefinitions = []ActionDefinition{
	{"next", "Next image"},
	{"previous", "Previous image"},
	{"jump_first", "Jump to first image"},
	{"jump_last", "Jump to last image"},
	{"rotate_left", "Rotate left 90 degrees"},
	{"rotate_right", "Rotate right 90 degrees"},
	{"zoom_in", "Zoom in"},
	{"zoom_out", "Zoom out"},
	{"reset_view", "Reset zoom, pan and rotation"},
	{"toggle_slideshow", "Start/stop the slideshow"},
	{"delete", "Move current image to trash"},
	{"inspect", "Show image metadata"},
	{"clear_history", "Clear the folder history"},
}

// ActionExecutor maps action names onto session operations so front-ends
// with different input systems share one dispatch table.
type ActionExecutor struct{}

// NewActionExecutor creates a new ActionExecutor instance
func NewActionExecutor() *ActionExecutor {
	return &ActionExecutor{}
}

// ExecuteAction runs the named action against the session. Returns false
// for unknown action names.
func (ae *ActionExecutor) ExecuteAction(action string, s *Session) bool {
	switch action {
	case "next":
		s.Next()
	case "previous":
		s.Previous()
	case "jump_first":
		s.JumpTo(0)
	case "jump_last":
		if n := len(s.Entries()); n > 0 {
			s.JumpTo(n - 1)
		}
	case "rotate_left":
		s.Rotate(-90)
	case "rotate_right":
		s.Rotate(90)
	case "zoom_in":
		s.ZoomIn()
	case "zoom_out":
		s.ZoomOut()
	case "reset_view":
		s.ResetTransform()
	case "toggle_slideshow":
		s.ToggleSlideshow()
	case "delete":
		s.DeleteCurrent()
	case "inspect":
		s.InspectCurrent()
	case "clear_history":
		s.ClearHistory()
	default:
		return false
	}

	return true
}

// GetActionDescriptions returns a map of action names to their descriptions
func GetActionDescriptions() map[string]string {
	descriptions := make(map[string]string)
	for _, action := range actionDefinitions {
		descriptions[action.Name] = action.Description
	}
	return descriptions
}
