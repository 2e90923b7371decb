// Package export 串联烘焙导出流水线：
// 烘焙帧 → 动画文档 → 图集与预览图 → PNG 编码 → ZIP 打包
//
// 只有位图编码可能失败（ErrEncode），此时不会产生任何归档。
// 其余阶段的输入在配置阶段已经归一化，不会失败。
package export

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"log"
	"os"

	"github.com/decker502/fxbake/internal/archive"
	"github.com/decker502/fxbake/internal/atlas"
	"github.com/decker502/fxbake/internal/particle"
	"github.com/decker502/fxbake/internal/skeleton"
)

// ErrEncode 位图编码失败（包装具体原因）
var ErrEncode = errors.New("bitmap encoding failed")

// DefaultName 归档内文件的默认基础名
const DefaultName = "particle"

// EncodeFunc 将位图编码为字节流
type EncodeFunc func(w io.Writer, img image.Image) error

// Options 导出选项
type Options struct {
	// Name 归档条目的基础名：<name>.png, <name>_preview.png, <name>.atlas, <name>.json
	Name string
	// Clip 动画名称，为空时使用 "animation"
	Clip string
	// Encoder 位图编码器，为空时使用 png.Encode
	Encoder EncodeFunc
}

// Result 导出结果
type Result struct {
	Archive  []byte             // 完整的 ZIP 字节
	Entries  []string           // 归档条目名称（按写入顺序）
	Frames   int                // 烘焙帧数
	Bones    int                // 导出的粒子骨骼数（不含根骨骼）
	Seed     int64              // 实际使用的随机种子（设置中为 0 时由时间生成）
	Document *skeleton.Document // 动画文档
}

// Run 执行一次完整导出
//
// 烘焙使用独立的 Simulator 与随机数生成器，不会影响任何正在运行的预览模拟。
//
// 参数：
//   - settings: 已归一化的粒子设置
//   - opts: 导出选项
//
// 返回：
//   - *Result: 导出结果
//   - error: 位图编码失败时返回包装了 ErrEncode 的错误，此时没有归档
func Run(settings particle.ParticleSettings, opts Options) (*Result, error) {
	if opts.Name == "" {
		opts.Name = DefaultName
	}
	if opts.Encoder == nil {
		opts.Encoder = png.Encode
	}

	// 1. 烘焙
	rng := particle.NewRand(settings.Seed)
	frames := particle.Bake(settings, rng)
	log.Printf("[Pipeline] Baked %d frames (%.2fs @ %d fps, seed %d)",
		len(frames), settings.Duration, settings.FPS, rng.Seed())

	// 2. 动画文档
	doc := skeleton.Export(frames, skeleton.Options{
		Clip:         opts.Clip,
		Attachment:   atlas.RegionName,
		RegionWidth:  atlas.SpriteSize,
		RegionHeight: atlas.SpriteSize,
		Width:        float64(settings.FrameWidth),
		Height:       float64(settings.FrameHeight),
	})
	docJSON, err := doc.Encode()
	if err != nil {
		return nil, err
	}
	bones := len(doc.Bones) - 1
	log.Printf("[Pipeline] Exported %d particle bones", bones)

	// 3. 图集与预览图
	page := atlas.Build()
	pageName := opts.Name + ".png"
	pagePNG, err := encodeImage(opts.Encoder, page.Image)
	if err != nil {
		return nil, fmt.Errorf("atlas %s: %w", pageName, err)
	}

	preview := atlas.RenderPreview(previewFrame(frames), atlas.Sprite(), settings.FrameWidth, settings.FrameHeight)
	previewName := opts.Name + "_preview.png"
	previewPNG, err := encodeImage(opts.Encoder, preview)
	if err != nil {
		return nil, fmt.Errorf("preview %s: %w", previewName, err)
	}

	// 4. 打包
	w := archive.NewWriter()
	entries := []struct {
		name string
		data []byte
	}{
		{pageName, pagePNG},
		{previewName, previewPNG},
		{opts.Name + ".atlas", []byte(page.Descriptor(pageName))},
		{opts.Name + ".json", docJSON},
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if err := w.Add(e.name, e.data); err != nil {
			return nil, err
		}
		names = append(names, e.name)
	}
	data := w.Bytes()
	log.Printf("[Pipeline] Archive assembled: %d entries, %d bytes", w.Len(), len(data))

	return &Result{
		Archive:  data,
		Entries:  names,
		Frames:   len(frames),
		Bones:    bones,
		Seed:     rng.Seed(),
		Document: doc,
	}, nil
}

// WriteFile 将导出结果写入文件
func (r *Result) WriteFile(path string) error {
	if err := os.WriteFile(path, r.Archive, 0o644); err != nil {
		return fmt.Errorf("failed to write archive %s: %w", path, err)
	}
	log.Printf("[Pipeline] Wrote %s", path)
	return nil
}

func encodeImage(encode EncodeFunc, img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := encode(&buf, img); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncode, err)
	}
	return buf.Bytes(), nil
}

// previewFrame 取烘焙过程中点的那一帧；没有帧时返回空帧
func previewFrame(frames []particle.BakedFrame) particle.BakedFrame {
	if len(frames) == 0 {
		return particle.BakedFrame{}
	}
	return frames[len(frames)/2]
}
