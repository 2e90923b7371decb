package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/decker502/fxbake/internal/particle"
)

// SupportedFPS 导出帧率只允许这三档
var SupportedFPS = []int{24, 30, 60}

// LoadSettings 从YAML文件加载粒子设置
// 参数：
//
//	filepath - 设置文件路径（相对或绝对路径）
//
// 返回：
//
//	particle.ParticleSettings - 已应用默认值并归一化的设置
//	error - 文件读取或解析失败时返回错误
func LoadSettings(filepath string) (particle.ParticleSettings, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return particle.ParticleSettings{}, fmt.Errorf("failed to read settings file %s: %w", filepath, err)
	}

	settings, err := ParseSettings(data)
	if err != nil {
		return particle.ParticleSettings{}, fmt.Errorf("failed to parse settings from %s: %w", filepath, err)
	}
	return settings, nil
}

// ParseSettings 解析YAML设置文本
// 文本中缺失的字段保留 particle.DefaultSettings() 的值，最后统一调用 Normalize
func ParseSettings(data []byte) (particle.ParticleSettings, error) {
	settings := particle.DefaultSettings()
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return particle.ParticleSettings{}, fmt.Errorf("invalid settings YAML: %w", err)
	}
	Normalize(&settings)
	return settings, nil
}

// MarshalSettings 将设置序列化为YAML（曲线使用紧凑字符串形式）
func MarshalSettings(settings particle.ParticleSettings) ([]byte, error) {
	data, err := yaml.Marshal(settings)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal settings: %w", err)
	}
	return data, nil
}

// SaveSettings 将设置写入YAML文件
func SaveSettings(filepath string, settings particle.ParticleSettings) error {
	data, err := MarshalSettings(settings)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write settings file %s: %w", filepath, err)
	}
	return nil
}

// Normalize 就地修正退化或非法的配置值，从不拒绝输入
//
// 规则：
//   - speed / lifetime 区间上下限颠倒时交换
//   - 圆角半径限制在 [0, min(width, height)/2]
//   - fps 吸附到最接近的 24/30/60，非正值使用 30
//   - duration ≤ 0 使用默认 2 秒
//   - rate ≤ 0 使用 1，maxParticles < 1 使用 1
//   - 没有关键点的曲线替换为常量 1
func Normalize(s *particle.ParticleSettings) {
	defaults := particle.DefaultSettings()
	e := &s.Emitter

	if e.SpeedMin > e.SpeedMax {
		e.SpeedMin, e.SpeedMax = e.SpeedMax, e.SpeedMin
	}
	if s.LifetimeMin > s.LifetimeMax {
		s.LifetimeMin, s.LifetimeMax = s.LifetimeMax, s.LifetimeMin
	}
	e.CornerRadius = particle.ClampCornerRadius(e.CornerRadius, e.Width, e.Height)

	s.FPS = SnapFPS(s.FPS)
	if s.Duration <= 0 || math.IsNaN(s.Duration) || math.IsInf(s.Duration, 0) {
		s.Duration = defaults.Duration
	}
	if e.Rate <= 0 {
		e.Rate = 1
	}
	if e.MaxParticles < 1 {
		e.MaxParticles = 1
	}
	if e.BurstCycles < 0 {
		e.BurstCycles = 0
	}
	if e.BurstCount < 0 {
		e.BurstCount = 0
	}
	if e.DurationStart > e.DurationEnd {
		e.DurationStart, e.DurationEnd = e.DurationEnd, e.DurationStart
	}

	// 帧尺寸至少 1 像素，否则预览无法渲染
	if s.FrameWidth < 1 {
		s.FrameWidth = defaults.FrameWidth
	}
	if s.FrameHeight < 1 {
		s.FrameHeight = defaults.FrameHeight
	}

	for _, c := range []*particle.Curve{
		&s.SizeCurve, &s.SpeedCurve, &s.WeightCurve, &s.SpinCurve,
		&s.AngularVelocityCurve, &s.NoiseCurve, &s.AttractionCurve,
	} {
		if len(c.Points) == 0 {
			*c = particle.ConstantCurve(1)
		}
	}
}

// SnapFPS 返回最接近的支持帧率，距离相同时取较低档
func SnapFPS(fps int) int {
	if fps <= 0 {
		return 30
	}
	best := SupportedFPS[0]
	for _, f := range SupportedFPS[1:] {
		if abs(fps-f) < abs(fps-best) {
			best = f
		}
	}
	return best
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// ApplyNumericEdit 解析一次数值编辑
// 文本不是有限数字时返回之前的有效值
func ApplyNumericEdit(prev float64, text string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return prev
	}
	return v
}

// ApplyIntEdit 与 ApplyNumericEdit 相同，用于整数字段（粒子上限、爆发次数等）
func ApplyIntEdit(prev int, text string) int {
	v, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return prev
	}
	return v
}
