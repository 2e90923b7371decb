// Package preset 管理命名的粒子设置预设
//
// 预设通过 gdata 跨平台存储持久化，内容为 YAML（与设置文件格式相同）。
// gdata 不可用时退化为仅内存存储，调用方无需区分两种模式。
package preset

import (
	"errors"
	"fmt"
	"log"
	"regexp"
	"sort"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"

	"github.com/decker502/fxbake/internal/particle"
	"github.com/decker502/fxbake/pkg/config"
)

// AppName gdata 应用名（决定存储目录）
const AppName = "fxbake"

// 存储路径常量
const (
	presetObject  = "presets"
	indexObject   = "preset_index"
	indexProperty = "names"
)

var (
	// ErrNotFound 预设不存在
	ErrNotFound = errors.New("preset not found")
	// ErrInvalidName 预设名称不合法
	ErrInvalidName = errors.New("invalid preset name")
)

// 预设名同时用作 gdata 属性名（即文件名），只允许安全字符
var namePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// Store 预设存储
type Store struct {
	gdataManager *gdata.Manager    // 可为 nil（降级模式，仅内存）
	memory       map[string][]byte // 降级模式下的预设内容
	names        []string          // 已保存的预设名（有序）
}

// Open 打开默认应用目录下的预设存储
// gdata 初始化失败时返回降级模式的 Store，并记录警告
func Open(appName string) *Store {
	manager, err := gdata.Open(gdata.Config{
		AppName: appName,
	})
	if err != nil {
		log.Printf("[Preset] Warning: gdata unavailable: %v (presets kept in memory)", err)
		manager = nil
	}
	return NewStore(manager)
}

// NewStore 创建预设存储
//
// 参数：
//   - gdataManager: gdata 存储管理器，可为 nil（降级模式）
func NewStore(gdataManager *gdata.Manager) *Store {
	s := &Store{
		gdataManager: gdataManager,
		memory:       make(map[string][]byte),
	}
	if err := s.loadIndex(); err != nil {
		// 索引损坏不是致命错误，从空列表开始
		log.Printf("[Preset] Warning: Failed to load preset index: %v", err)
	}
	return s
}

// Persistent 返回预设是否会写入磁盘
func (s *Store) Persistent() bool {
	return s.gdataManager != nil
}

// Save 保存（或覆盖）一个预设
func (s *Store) Save(name string, settings particle.ParticleSettings) error {
	if !namePattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	data, err := config.MarshalSettings(settings)
	if err != nil {
		return err
	}

	if s.gdataManager == nil {
		s.memory[name] = data
	} else if err := s.gdataManager.SaveObjectProp(presetObject, name, data); err != nil {
		return fmt.Errorf("failed to save preset %q: %w", name, err)
	}

	if !s.Exists(name) {
		s.names = append(s.names, name)
		sort.Strings(s.names)
		if err := s.saveIndex(); err != nil {
			return err
		}
	}
	log.Printf("[Preset] Saved preset %q", name)
	return nil
}

// Load 读取一个预设，返回归一化后的设置
func (s *Store) Load(name string) (particle.ParticleSettings, error) {
	if !s.Exists(name) {
		return particle.ParticleSettings{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}

	var data []byte
	if s.gdataManager == nil {
		data = s.memory[name]
	} else {
		var err error
		data, err = s.gdataManager.LoadObjectProp(presetObject, name)
		if err != nil {
			return particle.ParticleSettings{}, fmt.Errorf("failed to load preset %q: %w", name, err)
		}
	}

	settings, err := config.ParseSettings(data)
	if err != nil {
		return particle.ParticleSettings{}, fmt.Errorf("preset %q: %w", name, err)
	}
	return settings, nil
}

// Exists 返回预设是否存在
func (s *Store) Exists(name string) bool {
	i := sort.SearchStrings(s.names, name)
	return i < len(s.names) && s.names[i] == name
}

// List 返回所有预设名（按字母序）
func (s *Store) List() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Delete 删除一个预设
// 预设从索引中移除，持久化模式下内容被清空
func (s *Store) Delete(name string) error {
	i := sort.SearchStrings(s.names, name)
	if i >= len(s.names) || s.names[i] != name {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	s.names = append(s.names[:i], s.names[i+1:]...)

	if s.gdataManager == nil {
		delete(s.memory, name)
	} else if err := s.gdataManager.SaveObjectProp(presetObject, name, nil); err != nil {
		return fmt.Errorf("failed to clear preset %q: %w", name, err)
	}
	if err := s.saveIndex(); err != nil {
		return err
	}
	log.Printf("[Preset] Deleted preset %q", name)
	return nil
}

func (s *Store) loadIndex() error {
	s.names = nil
	if s.gdataManager == nil || !s.gdataManager.ObjectPropExists(indexObject, indexProperty) {
		return nil
	}
	data, err := s.gdataManager.LoadObjectProp(indexObject, indexProperty)
	if err != nil {
		return fmt.Errorf("failed to read preset index: %w", err)
	}
	var names []string
	if err := yaml.Unmarshal(data, &names); err != nil {
		return fmt.Errorf("failed to unmarshal preset index: %w", err)
	}
	seen := make(map[string]bool)
	for _, name := range names {
		if namePattern.MatchString(name) && !seen[name] {
			seen[name] = true
			s.names = append(s.names, name)
		}
	}
	sort.Strings(s.names)
	return nil
}

func (s *Store) saveIndex() error {
	if s.gdataManager == nil {
		return nil
	}
	data, err := yaml.Marshal(s.names)
	if err != nil {
		return fmt.Errorf("failed to marshal preset index: %w", err)
	}
	if err := s.gdataManager.SaveObjectProp(indexObject, indexProperty, data); err != nil {
		return fmt.Errorf("failed to save preset index: %w", err)
	}
	return nil
}
