package main

// ActionDefinition defines an action with its default keybindings, mouse
// bindings, and description.
type ActionDefinition struct {
	Name         string
	Keys         []string
	MouseActions []string
	Description  string
	Event        InputEvent
}

// actionDefinitions is the single source of truth for every input-driven
// operation: its default bindings and the event it emits.
var actionDefinitions = []ActionDefinition{
	{"exit", []string{"Escape", "KeyQ"}, []string{}, "Quit",
		InputEvent{Kind: EventQuit}},
	{"next", []string{"ArrowRight", "Space", "KeyN"}, []string{"LeftClick"}, "Next image",
		InputEvent{Kind: EventStepNext}},
	{"previous", []string{"ArrowLeft", "Backspace", "KeyP"}, []string{"RightClick"}, "Previous image",
		InputEvent{Kind: EventStepPrevious}},
	{"jump_first", []string{"Home"}, []string{}, "Jump to first image",
		InputEvent{Kind: EventJumpFirst}},
	{"jump_last", []string{"End"}, []string{}, "Jump to last image",
		InputEvent{Kind: EventJumpLast}},
	{"zoom_in", []string{"Equal", "Shift+Equal"}, []string{"WheelUp"}, "Zoom in",
		InputEvent{Kind: EventZoomDelta, Notches: 1}},
	{"zoom_out", []string{"Minus"}, []string{"WheelDown"}, "Zoom out",
		InputEvent{Kind: EventZoomDelta, Notches: -1}},
	{"zoom_reset", []string{"Key0"}, []string{"MiddleClick"}, "Reset to fit",
		InputEvent{Kind: EventZoomReset}},
	{"fullscreen", []string{"Enter", "KeyF"}, []string{"DoubleLeftClick"}, "Toggle fullscreen",
		InputEvent{Kind: EventToggleFullscreen}},
	{"info", []string{"KeyI"}, []string{}, "Show/hide info display",
		InputEvent{Kind: EventToggleInfo}},
}

// eventForAction maps an action name to the event it emits.
func eventForAction(action string) (InputEvent, bool) {
	for _, def := range actionDefinitions {
		if def.Name == action {
			return def.Event, true
		}
	}
	return InputEvent{}, false
}

// GetActionDescriptions returns a map of action names to their descriptions.
func GetActionDescriptions() map[string]string {
	descriptions := make(map[string]string)
	for _, action := range actionDefinitions {
		descriptions[action.Name] = action.Description
	}
	return descriptions
}

// GetDefaultKeybindings returns a map of action names to their default keybindings.
func GetDefaultKeybindings() map[string][]string {
	keybindings := make(map[string][]string)
	for _, action := range actionDefinitions {
		keybindings[action.Name] = action.Keys
	}
	return keybindings
}

// GetDefaultMousebindings returns a map of action names to their default mouse bindings.
func GetDefaultMousebindings() map[string][]string {
	mousebindings := make(map[string][]string)
	for _, action := range actionDefinitions {
		mousebindings[action.Name] = action.MouseActions
	}
	return mousebindings
}
