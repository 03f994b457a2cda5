package domain

import "context"

// UpdateEvent describes one dispatched inbound event.
type UpdateEvent struct {
	ConversationKey string
	Kind            UpdateKind
	SceneID         string
}

// RenderEvent describes one list render.
type RenderEvent struct {
	ConversationKey string
	SceneID         string
	Created         bool // true when a new reply message was created, false for in-place edit
	PageNumber      int
	PageCount       int
}

// BroadcastEvent describes one notification fan-out.
type BroadcastEvent struct {
	NotificationID string
	Recipients     int
	Failed         int
}

// LifecycleHooks defines optional callbacks for engine observability. Nil
// fields are skipped.
type LifecycleHooks struct {
	OnUpdate    func(context.Context, *UpdateEvent)
	OnRender    func(context.Context, *RenderEvent)
	OnBroadcast func(context.Context, *BroadcastEvent)
}
