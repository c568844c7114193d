package main

// InputHandler polls key and mouse state once per frame and translates
// triggered actions into the session's InputEvents. The session never sees
// raw host input.
type InputHandler struct {
	keys  *KeybindingManager
	mouse *MousebindingManager
}

// NewInputHandler creates a new InputHandler.
func NewInputHandler(keys *KeybindingManager, mouse *MousebindingManager) *InputHandler {
	return &InputHandler{
		keys:  keys,
		mouse: mouse,
	}
}

// Poll returns the events triggered this frame, in stable action-table
// order. Each action fires at most once per frame even when both a key and
// a mouse binding trigger it.
func (h *InputHandler) Poll() []InputEvent {
	var events []InputEvent
	for _, def := range actionDefinitions {
		if h.keys.CheckAction(def.Name) || h.mouse.CheckAction(def.Name) {
			events = append(events, def.Event)
		}
	}
	return events
}
