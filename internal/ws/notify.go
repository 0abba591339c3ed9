package ws

import (
	"encoding/json"

	"misterhr/internal/agent"
)

// Notifier forwards workflow progress events to the hub. Implements
// agent.ProgressNotifier.
type Notifier struct {
	hub *Hub
}

func NewNotifier(hub *Hub) *Notifier {
	return &Notifier{hub: hub}
}

func (n *Notifier) Progress(event agent.ProgressEvent) {
	if n == nil || n.hub == nil {
		return
	}
	b, err := json.Marshal(event)
	if err != nil {
		return
	}
	n.hub.Broadcast(b)
}
