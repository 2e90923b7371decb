package skeleton

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"math"

	"github.com/decker502/fxbake/internal/particle"
)

const (
	// Version is the runtime format version written to the document header
	Version = "3.7.94"

	// DefaultClip is the clip name used when Options.Clip is empty
	DefaultClip = "animation"

	rootBone = "root"

	// Keyframe reduction thresholds
	translateThreshold = 5.0  // pixels
	rotateThreshold    = 10.0 // degrees
	scaleThreshold     = 0.1

	// A particle below either limit counts as invisible
	visibleAlpha = 0.01
	visibleScale = 0.01
)

// Options controls the document produced by Export.
type Options struct {
	// Clip is the animation name. Defaults to DefaultClip.
	Clip string

	// Attachment is the region name shared by every slot.
	Attachment string

	// RegionWidth and RegionHeight are the size of the attachment region in pixels.
	RegionWidth  float64
	RegionHeight float64

	// Width and Height are the skeleton bounds, centered on the origin.
	Width  float64
	Height float64
}

// BoneName returns the bone name of particle id.
func BoneName(id int) string {
	return fmt.Sprintf("particle_%d", id)
}

// SlotName returns the slot name of particle id.
func SlotName(id int) string {
	return fmt.Sprintf("slot_%d", id)
}

// track is the reduced keyframe data of one particle.
type track struct {
	translate   []TranslateKey
	rotate      []RotateKey
	scale       []ScaleKey
	attachment  []AttachmentKey
	everVisible bool
}

// Export converts baked frames into an animation document.
//
// Every particle seen in any frame is considered; a particle becomes a bone
// and slot only if it was visible at some frame. Frame coordinates have Y
// pointing down, the document has Y pointing up, so Y and rotation are
// mirrored on the way out.
func Export(frames []particle.BakedFrame, opts Options) *Document {
	if opts.Clip == "" {
		opts.Clip = DefaultClip
	}

	doc := &Document{
		Skeleton: SkeletonInfo{
			Version: Version,
			X:       -opts.Width / 2,
			Y:       -opts.Height / 2,
			Width:   opts.Width,
			Height:  opts.Height,
		},
		Bones: []Bone{{Name: rootBone}},
		Slots: []Slot{},
		Skins: map[string]map[string]map[string]RegionAttachment{
			"default": {},
		},
	}
	clip := Animation{
		Bones: map[string]BoneTimeline{},
		Slots: map[string]SlotTimeline{},
	}

	region := RegionAttachment{
		Type:   "region",
		Name:   opts.Attachment,
		Path:   opts.Attachment,
		ScaleX: 1,
		ScaleY: 1,
		Width:  opts.RegionWidth,
		Height: opts.RegionHeight,
	}

	for _, id := range particle.ParticleIDs(frames) {
		tr := buildTrack(id, frames, opts.Attachment)
		if !tr.everVisible || len(tr.translate) == 0 {
			continue
		}

		bone, slot := BoneName(id), SlotName(id)
		doc.Bones = append(doc.Bones, Bone{Name: bone, Parent: rootBone})
		doc.Slots = append(doc.Slots, Slot{Name: slot, Bone: bone})
		doc.Skins["default"][slot] = map[string]RegionAttachment{opts.Attachment: region}

		clip.Bones[bone] = BoneTimeline{
			Translate: tr.translate,
			Rotate:    tr.rotate,
			Scale:     tr.scale,
		}
		clip.Slots[slot] = SlotTimeline{Attachment: tr.attachment}
	}

	doc.Animations = map[string]Animation{opts.Clip: clip}
	doc.Skeleton.Hash = doc.digest()
	return doc
}

// buildTrack walks all frames for one particle and keeps only the keys that
// matter: visibility changes, the first and last frame, and changes above
// the reduction thresholds.
func buildTrack(id int, frames []particle.BakedFrame, attachment string) track {
	var tr track
	n := len(frames)
	angles := medianFilter3(particleAngles(id, frames))

	var (
		wasVisible bool
		known      particle.Snapshot
		haveKnown  bool

		lastX, lastY   float64
		lastAngle      float64
		haveAngle      bool
		lastSX, lastSY float64
	)

	first, _ := firstSnapshot(id, frames)
	name := attachment

	for i := range frames {
		tm := roundTime(frames[i].Time)
		snap, present := frames[i].Lookup(id)
		if present {
			known = snap
			haveKnown = true
		}
		visible := present && snap.Alpha > visibleAlpha && snap.Scale > visibleScale
		boundary := i == 0 || i == n-1
		angle := angles[i]

		switch {
		case visible:
			if haveAngle {
				angle = unwrapAngle(angle, lastAngle)
			}
			force := !wasVisible || boundary
			if !wasVisible {
				tr.everVisible = true
				tr.attachment = append(tr.attachment, AttachmentKey{Time: tm, Name: &name})
			}
			if force || math.Hypot(snap.X-lastX, snap.Y-lastY) > translateThreshold {
				tr.addTranslate(tm, snap.X, snap.Y)
				lastX, lastY = snap.X, snap.Y
			}
			if force || math.Abs(angle-lastAngle) > rotateThreshold {
				tr.addRotate(tm, angle)
				lastAngle, haveAngle = angle, true
			}
			if force || math.Abs(snap.ScaleX-lastSX) > scaleThreshold || math.Abs(snap.ScaleY-lastSY) > scaleThreshold {
				tr.addScale(tm, snap.ScaleX, snap.ScaleY)
				lastSX, lastSY = snap.ScaleX, snap.ScaleY
			}

		case wasVisible:
			// Disappearance: hide the slot and close every channel on the last known pose
			tr.attachment = append(tr.attachment, AttachmentKey{Time: tm, Name: nil})
			tr.addTranslate(tm, known.X, known.Y)
			tr.addRotate(tm, lastAngle)
			tr.addScale(tm, 0, 0)
			lastX, lastY = known.X, known.Y
			lastSX, lastSY = 0, 0

		case boundary:
			// Pin hidden particles at the clip ends so every channel spans the whole clip
			ref := first
			if haveKnown {
				ref = known
			}
			if !haveAngle {
				lastAngle, haveAngle = angle, true
			}
			tr.addTranslate(tm, ref.X, ref.Y)
			tr.addRotate(tm, lastAngle)
			tr.addScale(tm, 0, 0)
			lastX, lastY = ref.X, ref.Y
			lastSX, lastSY = 0, 0
		}
		wasVisible = visible
	}
	return tr
}

func (tr *track) addTranslate(tm, x, y float64) {
	tr.translate = append(tr.translate, TranslateKey{Time: tm, X: roundPos(x), Y: roundPos(-y)})
}

func (tr *track) addRotate(tm, angle float64) {
	tr.rotate = append(tr.rotate, RotateKey{Time: tm, Angle: roundAngle(-angle)})
}

func (tr *track) addScale(tm, sx, sy float64) {
	tr.scale = append(tr.scale, ScaleKey{Time: tm, X: roundScale(sx), Y: roundScale(sy)})
}

// particleAngles returns the rotation of id at every frame, carrying the last
// known angle across frames where the particle is absent. Frames before its
// first appearance use its first angle.
func particleAngles(id int, frames []particle.BakedFrame) []float64 {
	angles := make([]float64, len(frames))
	first, _ := firstSnapshot(id, frames)
	last := first.Rotation
	for i := range frames {
		if snap, ok := frames[i].Lookup(id); ok {
			last = snap.Rotation
		}
		angles[i] = last
	}
	return angles
}

func firstSnapshot(id int, frames []particle.BakedFrame) (particle.Snapshot, bool) {
	for i := range frames {
		if snap, ok := frames[i].Lookup(id); ok {
			return snap, true
		}
	}
	return particle.Snapshot{}, false
}

// digest hashes the document body (everything but the header hash).
func (d *Document) digest() string {
	body := *d
	body.Skeleton.Hash = ""
	data, err := json.Marshal(body)
	if err != nil {
		return ""
	}
	h := fnv.New64a()
	h.Write(data)
	return fmt.Sprintf("%016x", h.Sum64())
}
