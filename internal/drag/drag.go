// Package drag tracks an in-progress pointer drag of one or more selected
// tasks. The controller is a two-state machine (idle, dragging); pointer
// moves never change session identity. Geometry comes in through an
// interface so tests can supply fake rectangles instead of a layout engine.
package drag

import (
	"sync"
	"time"

	"github.com/foxerapp/foxer/internal/errors"
)

// Point is a 2D pointer position.
type Point struct {
	X float64
	Y float64
}

// Rect is an on-screen bounding box.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// CenterY returns the vertical center of the rect.
func (r Rect) CenterY() float64 {
	return r.Y + r.Height/2
}

// Offset is a position relative to the anchor's box top-left, used to render
// the dragged group as one rigid overlay.
type Offset struct {
	X float64
	Y float64
}

// Geometry provides bounding boxes for rendered tasks.
type Geometry interface {
	BoundingBox(id string) (Rect, bool)
}

// DropHandler commits the data mutation for a completed drop.
type DropHandler interface {
	HandleDrop(session Session, overID string)
}

// DropFunc adapts a plain function to the DropHandler interface.
type DropFunc func(session Session, overID string)

// HandleDrop implements DropHandler.
func (f DropFunc) HandleDrop(session Session, overID string) {
	f(session, overID)
}

// Session is the read-only snapshot captured at drag start. It is created
// once, never mutated, and discarded at drag end.
type Session struct {
	// GroupIDs are the ids moved together, in collection order
	GroupIDs []string

	// AnchorID is the id the user physically grabbed
	AnchorID string

	// Offsets maps each group member to its position relative to the anchor box
	Offsets map[string]Offset

	// PointerYCorrection shifts collision input so the group's vertical
	// center, not the anchor's, determines the drop target
	PointerYCorrection float64
}

// Controller owns at most one drag session at a time.
type Controller struct {
	geo     Geometry
	handler DropHandler

	// grace keeps group members visually suppressed briefly past drag end so
	// return/entry animations can settle without flicker.
	grace  time.Duration
	reveal func(ids []string)

	mu      sync.Mutex
	session *Session

	// suppressed maps each hidden id to the generation of the session that
	// hid it. Reveal timers only lift ids from their own generation, so a
	// stale timer cannot expose ids re-suppressed by a newer drag.
	gen        uint64
	suppressed map[string]uint64
}

// NewController creates an idle controller. reveal is called, after the
// grace delay, with the ids whose visual suppression was lifted; it may be
// nil.
func NewController(geo Geometry, handler DropHandler, grace time.Duration, reveal func(ids []string)) *Controller {
	return &Controller{
		geo:        geo,
		handler:    handler,
		grace:      grace,
		reveal:     reveal,
		suppressed: make(map[string]uint64),
	}
}

// Active reports whether a drag session is in progress.
func (c *Controller) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session != nil
}

// Suppressed reports whether a task should be hidden from normal layout
// flow because it is (or just was) part of a dragged group.
func (c *Controller) Suppressed(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.suppressed[id]
	return ok
}

// Start opens a drag session grabbed at anchorID. selection is the current
// multi-select in collection order; if it is empty or excludes the anchor,
// the group is just the anchor. present filters out ids that no longer
// exist in either collection.
func (c *Controller) Start(anchorID string, selection []string, present func(id string) bool) (*Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session != nil {
		return nil, errors.NewInvalidRequest("drag already in progress")
	}

	group := groupFor(anchorID, selection, present)

	anchorBox, ok := c.geo.BoundingBox(anchorID)
	if !ok {
		return nil, errors.NewNotFound(anchorID)
	}

	offsets := make(map[string]Offset, len(group))
	kept := make([]string, 0, len(group))
	top, bottom := anchorBox.Y, anchorBox.Y+anchorBox.Height
	for _, id := range group {
		box, ok := c.geo.BoundingBox(id)
		if !ok {
			continue
		}
		kept = append(kept, id)
		offsets[id] = Offset{X: box.X - anchorBox.X, Y: box.Y - anchorBox.Y}
		if box.Y < top {
			top = box.Y
		}
		if b := box.Y + box.Height; b > bottom {
			bottom = b
		}
	}

	groupCenter := (top + bottom) / 2
	s := &Session{
		GroupIDs:           kept,
		AnchorID:           anchorID,
		Offsets:            offsets,
		PointerYCorrection: groupCenter - anchorBox.CenterY(),
	}

	c.session = s
	c.gen++
	for _, id := range kept {
		c.suppressed[id] = c.gen
	}
	return s, nil
}

// AdjustPointer shifts the raw pointer position by the session's vertical
// correction. With no active session it returns the input unchanged.
func (c *Controller) AdjustPointer(p Point) Point {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return p
	}
	return Point{X: p.X, Y: p.Y + c.session.PointerYCorrection}
}

// DropTarget resolves which candidate the group is over, using the adjusted
// pointer. Group members are never targets. Returns "" when nothing is hit.
func (c *Controller) DropTarget(pointer Point, candidates []string) string {
	c.mu.Lock()
	session := c.session
	c.mu.Unlock()
	if session == nil {
		return ""
	}

	adjusted := pointer.Y + session.PointerYCorrection
	inGroup := make(map[string]bool, len(session.GroupIDs))
	for _, id := range session.GroupIDs {
		inGroup[id] = true
	}

	best := ""
	bestDist := 0.0
	for _, id := range candidates {
		if inGroup[id] {
			continue
		}
		box, ok := c.geo.BoundingBox(id)
		if !ok {
			continue
		}
		dist := adjusted - box.CenterY()
		if dist < 0 {
			dist = -dist
		}
		if best == "" || dist < bestDist {
			best = id
			bestDist = dist
		}
	}
	return best
}

// End closes the session. With a valid drop target the mutation is delegated
// to the drop handler before the session is cleared; without one the drag is
// a no-op cancellation. Either way, visual suppression persists for the
// grace delay before reveal fires.
func (c *Controller) End(overID string) {
	c.mu.Lock()
	session := c.session
	gen := c.gen
	c.session = nil
	c.mu.Unlock()

	if session == nil {
		return
	}

	if overID != "" && c.handler != nil {
		c.handler.HandleDrop(*session, overID)
	}

	ids := append([]string(nil), session.GroupIDs...)
	time.AfterFunc(c.grace, func() {
		c.mu.Lock()
		lifted := make([]string, 0, len(ids))
		for _, id := range ids {
			// A newer session may have re-suppressed the id; leave it alone.
			if c.suppressed[id] != gen {
				continue
			}
			delete(c.suppressed, id)
			lifted = append(lifted, id)
		}
		c.mu.Unlock()
		if c.reveal != nil && len(lifted) > 0 {
			c.reveal(lifted)
		}
	})
}

// groupFor applies the selection rules: singleton when the selection is
// empty or excludes the anchor, otherwise the still-present selection.
func groupFor(anchorID string, selection []string, present func(id string) bool) []string {
	hasAnchor := false
	for _, id := range selection {
		if id == anchorID {
			hasAnchor = true
			break
		}
	}
	if len(selection) == 0 || !hasAnchor {
		return []string{anchorID}
	}

	group := make([]string, 0, len(selection))
	for _, id := range selection {
		if present == nil || present(id) {
			group = append(group, id)
		}
	}
	if len(group) == 0 {
		return []string{anchorID}
	}
	return group
}
