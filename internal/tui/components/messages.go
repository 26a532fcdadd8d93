package components

// CloseRequestMsg is emitted when a component asks to be dismissed.
type CloseRequestMsg struct{}
