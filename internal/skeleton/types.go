// Package skeleton provides the bone/slot animation document produced from a
// baked particle effect, and the exporter that builds it.
//
// The document follows the skeletal JSON layout read by Spine-compatible
// runtimes: one root bone, one bone and slot per particle, a single shared
// region attachment and one animation clip with per-bone transform timelines
// and per-slot attachment toggles.
package skeleton

// Document is the root structure of an animation document.
type Document struct {
	Skeleton SkeletonInfo `json:"skeleton"`

	// Bones is the bone hierarchy. The first bone is always the root.
	Bones []Bone `json:"bones"`

	// Slots binds one bone each to an attachment. Every slot starts hidden.
	Slots []Slot `json:"slots"`

	// Skins maps skin name → slot name → attachment name → attachment.
	// Only the "default" skin is produced.
	Skins map[string]map[string]map[string]RegionAttachment `json:"skins"`

	// Animations maps clip name to its timelines
	Animations map[string]Animation `json:"animations"`
}

// SkeletonInfo is the document header.
type SkeletonInfo struct {
	Hash    string  `json:"hash"`
	Version string  `json:"version"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
}

// Bone is a node of the hierarchy. Parent is empty only for the root.
type Bone struct {
	Name   string `json:"name"`
	Parent string `json:"parent,omitempty"`
}

// Slot binds a bone to a drawable attachment.
// Attachment is nil when the slot shows nothing in the setup pose.
type Slot struct {
	Name       string  `json:"name"`
	Bone       string  `json:"bone"`
	Attachment *string `json:"attachment"`
}

// RegionAttachment draws a rectangular atlas region.
type RegionAttachment struct {
	Type     string  `json:"type"`
	Name     string  `json:"name"`
	Path     string  `json:"path"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	ScaleX   float64 `json:"scaleX"`
	ScaleY   float64 `json:"scaleY"`
	Rotation float64 `json:"rotation"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
}

// Animation is one clip.
type Animation struct {
	Bones map[string]BoneTimeline `json:"bones"`
	Slots map[string]SlotTimeline `json:"slots"`
}

// BoneTimeline holds the transform keys of one bone. Keys are ordered by time.
type BoneTimeline struct {
	Translate []TranslateKey `json:"translate,omitempty"`
	Rotate    []RotateKey    `json:"rotate,omitempty"`
	Scale     []ScaleKey     `json:"scale,omitempty"`
}

type TranslateKey struct {
	Time float64 `json:"time"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

type RotateKey struct {
	Time  float64 `json:"time"`
	Angle float64 `json:"angle"`
}

type ScaleKey struct {
	Time float64 `json:"time"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// SlotTimeline holds the attachment toggles of one slot.
type SlotTimeline struct {
	Attachment []AttachmentKey `json:"attachment"`
}

// AttachmentKey shows the named attachment from Time on, or hides the slot when Name is nil.
type AttachmentKey struct {
	Time float64 `json:"time"`
	Name *string `json:"name"`
}
