package skeleton

import (
	"encoding/json"
	"fmt"
	"os"
)

// Encode serializes the document as compact JSON.
func (d *Document) Encode() ([]byte, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("failed to encode animation document: %w", err)
	}
	return data, nil
}

// ParseDocument parses an animation document.
//
// The first bone must be the root; every other bone and every slot must
// reference a declared bone.
func ParseDocument(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse animation document: %w", err)
	}

	if len(doc.Bones) == 0 || doc.Bones[0].Parent != "" {
		return nil, fmt.Errorf("animation document has no root bone")
	}
	bones := make(map[string]bool, len(doc.Bones))
	for _, b := range doc.Bones {
		if bones[b.Name] {
			return nil, fmt.Errorf("duplicate bone %q", b.Name)
		}
		if b.Parent != "" && !bones[b.Parent] {
			return nil, fmt.Errorf("bone %q references unknown parent %q", b.Name, b.Parent)
		}
		bones[b.Name] = true
	}
	slots := make(map[string]bool, len(doc.Slots))
	for _, s := range doc.Slots {
		if slots[s.Name] {
			return nil, fmt.Errorf("duplicate slot %q", s.Name)
		}
		if !bones[s.Bone] {
			return nil, fmt.Errorf("slot %q references unknown bone %q", s.Name, s.Bone)
		}
		slots[s.Name] = true
	}

	return &doc, nil
}

// ParseDocumentFile reads and parses an animation document from path.
//
// Example:
//
//	doc, err := ParseDocumentFile("out/effect.json")
//	if err != nil {
//	    log.Fatalf("Failed to parse document: %v", err)
//	}
//	fmt.Printf("Bones: %d\n", len(doc.Bones))
func ParseDocumentFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read animation document '%s': %w", path, err)
	}
	return ParseDocument(data)
}
