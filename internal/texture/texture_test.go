package texture

import (
	"errors"
	"strings"
	"testing"
)

func TestCacheKey_StableAcrossConstructionOrder(t *testing.T) {
	a := NewConfig(CategoryWall, 64, 64).WithSeed(42)
	a.Theme = "neon"
	a.EnableAO = true

	var b Config
	b.EnableAO = true
	b.Theme = "neon"
	b.Compression = DefaultCompression
	b.AnimationFrames = 1
	b.Quality = QualityHigh
	b.Height = 64
	b.Width = 64
	b.Type = CategoryWall
	seed := int64(42)
	b.Seed = &seed

	if a.CacheKey() != b.CacheKey() {
		t.Errorf("keys differ for equal configs: %s vs %s", a.CacheKey(), b.CacheKey())
	}
	if len(a.CacheKey()) != 64 {
		t.Errorf("key length = %d, want 64", len(a.CacheKey()))
	}
}

func TestCacheKey_SensitiveToEveryField(t *testing.T) {
	base := NewConfig(CategoryWall, 64, 64).WithSeed(42)
	baseKey := base.CacheKey()

	mutations := map[string]func(c *Config){
		"type":        func(c *Config) { c.Type = CategorySprite },
		"width":       func(c *Config) { c.Width = 65 },
		"height":      func(c *Config) { c.Height = 65 },
		"quality":     func(c *Config) { c.Quality = QualityLow },
		"theme":       func(c *Config) { c.Theme = "neon" },
		"frames":      func(c *Config) { c.AnimationFrames = 2 },
		"palette":     func(c *Config) { c.ColorPalette = []string{"#fff"} },
		"seed":        func(c *Config) { s := int64(43); c.Seed = &s },
		"seed unset":  func(c *Config) { c.Seed = nil },
		"normal":      func(c *Config) { c.EnableNormalMap = true },
		"specular":    func(c *Config) { c.EnableSpecular = true },
		"ao":          func(c *Config) { c.EnableAO = true },
		"compression": func(c *Config) { c.Compression = FormatWebP },
	}

	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			c := base
			mutate(&c)
			if c.CacheKey() == baseKey {
				t.Errorf("changing %s did not change the cache key", name)
			}
		})
	}
}

func TestCacheKey_EmptyPaletteEqualsNil(t *testing.T) {
	a := NewConfig(CategoryUI, 32, 32)
	b := a
	b.ColorPalette = []string{}
	if a.CacheKey() != b.CacheKey() {
		t.Error("empty palette and nil palette should share a key")
	}
}

func TestDecodeJSON_AppliesDefaults(t *testing.T) {
	cfg, err := DecodeJSON(strings.NewReader(`{"texture_type":"wall","width":64,"height":32}`))
	if err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	want := NewConfig(CategoryWall, 64, 32)
	if cfg.CacheKey() != want.CacheKey() {
		t.Errorf("decoded config %+v does not match defaults %+v", cfg, want)
	}
}

func TestDecodeJSON_FullDocument(t *testing.T) {
	body := `{
		"texture_type": "Sprite",
		"width": 128, "height": 96,
		"quality": "medium",
		"theme": "cyberpunk",
		"animation_frames": 4,
		"color_palette": ["#112233"],
		"seed": 7,
		"enable_normal_map": true,
		"enable_specular": true,
		"enable_ao": true,
		"compression": "PNG"
	}`
	cfg, err := DecodeJSON(strings.NewReader(body))
	if err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	if cfg.Type != CategorySprite || cfg.Quality != QualityMedium || cfg.AnimationFrames != 4 {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.Seed == nil || *cfg.Seed != 7 {
		t.Errorf("seed = %v, want 7", cfg.Seed)
	}
	if !cfg.EnableNormalMap || !cfg.EnableSpecular || !cfg.EnableAO {
		t.Error("expected all map flags set")
	}
	if cfg.Compression != FormatPNG {
		t.Errorf("compression = %q, want png", cfg.Compression)
	}
	if cfg.Palette().Primary.R != 0x11 {
		t.Errorf("palette override not applied: %+v", cfg.Palette().Primary)
	}
}

func TestDecodeJSON_Rejects(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantField string
	}{
		{"missing type", `{"width":64,"height":64}`, "texture_type"},
		{"missing width", `{"texture_type":"wall","height":64}`, "width"},
		{"missing height", `{"texture_type":"wall","width":64}`, "height"},
		{"unknown field", `{"texture_type":"wall","width":64,"height":64,"bogus":1}`, "bogus"},
		{"zero width", `{"texture_type":"wall","width":0,"height":64}`, "width"},
		{"huge height", `{"texture_type":"wall","width":8,"height":100000}`, "height"},
		{"bad quality", `{"texture_type":"wall","width":8,"height":8,"quality":"EPIC"}`, "quality"},
		{"zero frames", `{"texture_type":"wall","width":8,"height":8,"animation_frames":0}`, "animation_frames"},
		{"bad palette", `{"texture_type":"wall","width":8,"height":8,"color_palette":["blue"]}`, "color_palette"},
		{"bad compression", `{"texture_type":"wall","width":8,"height":8,"compression":"gif"}`, "compression"},
		{"wrong type", `{"texture_type":"wall","width":"big","height":8}`, "width"},
		{"empty type", `{"texture_type":"  ","width":8,"height":8}`, "texture_type"},
		{"empty body", ``, ""},
		{"trailing data", `{"texture_type":"wall","width":8,"height":8} {}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeJSON(strings.NewReader(tt.body))
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("field = %q, want %q (err: %v)", verr.Field, tt.wantField, err)
			}
		})
	}
}

func TestDecodeJSON_UnknownCategoryAccepted(t *testing.T) {
	cfg, err := DecodeJSON(strings.NewReader(`{"texture_type":"hologram","width":8,"height":8}`))
	if err != nil {
		t.Fatalf("unknown category should pass the boundary: %v", err)
	}
	if cfg.Type.Known() {
		t.Error("hologram should not be a known category")
	}
}

func TestDecodeYAML(t *testing.T) {
	doc := []byte(`
texture_type: particle
width: 32
height: 32
animation_frames: 3
theme: neon
`)
	cfg, err := DecodeYAML(doc)
	if err != nil {
		t.Fatalf("DecodeYAML: %v", err)
	}
	if cfg.Type != CategoryParticle || cfg.AnimationFrames != 3 || cfg.Theme != "neon" {
		t.Errorf("unexpected config: %+v", cfg)
	}

	if _, err := DecodeYAML([]byte("texture_type: wall\nwidth: 8\nheight: 8\ncolour: red\n")); err == nil {
		t.Error("expected unknown yaml field to be rejected")
	}
	if _, err := DecodeYAML(nil); err == nil {
		t.Error("expected empty yaml document to be rejected")
	}
}

func TestDecode_ByExtension(t *testing.T) {
	if _, err := Decode(".YML", []byte("texture_type: ui\nwidth: 8\nheight: 8\n")); err != nil {
		t.Errorf("yml: %v", err)
	}
	if _, err := Decode(".json", []byte(`{"texture_type":"ui","width":8,"height":8}`)); err != nil {
		t.Errorf("json: %v", err)
	}
	if _, err := Decode(".toml", nil); err == nil {
		t.Error("expected unsupported extension error")
	}
}

func TestQuality(t *testing.T) {
	want := map[Quality]int{QualityLow: 64, QualityMedium: 128, QualityHigh: 256, QualityUltra: 512, QualityAAA: 1024}
	for q, v := range want {
		if q.Value() != v {
			t.Errorf("%s.Value() = %d, want %d", q, q.Value(), v)
		}
	}
	if _, err := ParseQuality("ultra"); err != nil {
		t.Errorf("ParseQuality(ultra): %v", err)
	}
}

func TestResultCheck(t *testing.T) {
	good := &Result{Diffuse: []string{"a", "b"}, Normal: []string{"c", "d"}, Metadata: Metadata{Frames: 2}}
	if err := good.Check(); err != nil {
		t.Errorf("Check: %v", err)
	}

	bad := []*Result{
		nil,
		{Metadata: Metadata{Frames: 0}},
		{Diffuse: []string{"a"}, Metadata: Metadata{Frames: 2}},
		{Diffuse: []string{"a"}, AO: []string{"x", "y"}, Metadata: Metadata{Frames: 1}},
	}
	for i, r := range bad {
		if err := r.Check(); err == nil {
			t.Errorf("case %d: expected error", i)
		}
	}
}
