package naming

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/titlenorm/internal/mapping"
)

var pinned = time.Date(2025, 6, 18, 9, 30, 0, 0, time.UTC)

func newTestFormatter(t *testing.T, opts ...Option) *Formatter {
	t.Helper()
	return NewFormatter(mapping.Default(), append([]Option{WithClock(func() time.Time { return pinned })}, opts...)...)
}

func TestFormatDetailed(t *testing.T) {
	f := newTestFormatter(t)

	cases := []struct {
		name     string
		kind     string
		input    string
		want     string
		wantRule Rule
	}{
		// Passthrough
		{name: "unknown kind", kind: "DVD", input: "[作者]本", want: "[作者]本", wantRule: RulePassthrough},

		// Verbatim
		{name: "other", kind: "その他", input: "some thing", want: "some thing", wantRule: RuleVerbatim},
		{name: "novel", kind: "小説", input: "[作者]小説", want: "[作者]小説", wantRule: RuleVerbatim},

		// Art book
		{name: "art book", kind: "美術", input: "[作者]画集タイトル", want: "[作者][出版社](20250618)画集タイトル", wantRule: RuleArtBook},
		{name: "art book placeholder author", kind: "美術", input: "画集タイトル", want: "[作者][出版社](20250618)画集タイトル", wantRule: RuleArtBook},

		// Comic
		{name: "comic", kind: "コミック", input: "[作者A][DL版]すごい漫画第2巻", want: "[作者A]すごい漫画 第2巻", wantRule: RuleComic},
		{name: "fullwidth CG label", kind: "ＣＧ", input: "[作者]画像集", want: "[作者]画像集", wantRule: RuleComic},

		// Adult comic
		{name: "adult comic", kind: "成年コミック", input: "[作者]タイトル", want: "[作者][出版社](20250618)タイトル", wantRule: RuleAdultComic},

		// Doujin
		{name: "doujin known series", kind: "同人", input: "(例大祭20) [サークル] 本 (東方Project)", want: "[サークル](例大祭20)本 (東方)", wantRule: RuleDoujin},
		{name: "doujin no series", kind: "電子同人", input: "[サークル] 本 2025-05-05", want: "[サークル](20250505)本 2025－05－05", wantRule: RuleDoujin},
		{name: "doujin decoration tag is not an event", kind: "同人", input: "[サークル] タイトル (PRESTIGE COMIC)", want: "[サークル](イベント不明)タイトル", wantRule: RuleDoujin},
		{name: "doujin widened series", kind: "同人", input: "(C105) [サークル] 本 (Fate/Grand Order)", want: "[サークル](C105)本 (FGO)", wantRule: RuleDoujin},

		// Magazine
		{name: "magazine", kind: "雑誌", input: "週刊テスト 2024年3月号", want: "[雑誌](2024-03) 週刊テスト 2024年3月号", wantRule: RuleMapping},
		{name: "adult magazine month padded", kind: "成年雑誌", input: "コミックテスト 2024年3月号", want: "[コミックテスト]2024年03月号", wantRule: RuleMapping},
		{name: "adult magazine dash padded", kind: "成年雑誌", input: "テスト Vol.5-3", want: "[テスト]Vol5-03", wantRule: RuleMapping},

		// Clip
		{name: "clip", kind: "写真集", input: "[撮影者] 写真集タイトル", want: "写真集タイトル", wantRule: RuleClip},

		// Default fill
		{name: "no pattern matches", kind: "画集", input: "なにか", want: "20250618", wantRule: RuleDefaultFill},
		{name: "magazine without date", kind: "雑誌", input: "週刊テスト", want: "20250618", wantRule: RuleDefaultFill},
		{name: "empty comic", kind: "コミック", input: "", want: "20250618", wantRule: RuleDefaultFill},
		{name: "empty name without prefix", kind: "DVD", input: "", want: "", wantRule: RulePassthrough},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, rule := f.FormatDetailed(tc.kind, tc.input, nil)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.wantRule, rule)
		})
	}
}

func TestFormat_DoujinRecordsUnknownSeriesOnce(t *testing.T) {
	f := newTestFormatter(t)
	unknown := NewUnknownSeriesSet()
	name := "(C105) [サークル (作者)] タイトル (SeriesX)"

	first := f.Format("同人", name, unknown)
	second := f.Format("同人", name, unknown)

	assert.Equal(t, "[サークル(作者)](C105)タイトル (SeriesX)", first)
	assert.Equal(t, first, second)
	assert.Equal(t, []string{"SeriesX"}, unknown.Drain())
}

func TestFormat_PaddedEventNotRecorded(t *testing.T) {
	f := newTestFormatter(t)
	unknown := NewUnknownSeriesSet()

	got := f.Format("同人", "[サークル] タイトル ( C105 )", unknown)

	assert.True(t, strings.HasPrefix(got, "[サークル]( C105 )タイトル"), got)
	assert.False(t, strings.HasSuffix(got, " (C105)"), got)
	assert.Zero(t, unknown.Len())
}

func TestFormat_KnownSeriesNotRecorded(t *testing.T) {
	f := newTestFormatter(t)
	unknown := NewUnknownSeriesSet()
	f.Format("同人", "(C105) [サークル] 本 (ブルーアーカイブ)", unknown)
	assert.Zero(t, unknown.Len())
}

func TestFormat_PassthroughIdentity(t *testing.T) {
	f := newTestFormatter(t, WithNameNormalization(true))
	for _, name := range []string{"", "x", "[作者]本第1巻", "ＡＢＣ　ー", "(C105) [a] b (c)"} {
		assert.Equal(t, name, f.Format("写真 DVD", name, nil))
	}
}

func TestFormat_CustomTable(t *testing.T) {
	table, err := mapping.Parse([]byte(`
prefixes:
  成年雑誌: ""
  同人: "[同人]"
  コミック: "[漫画]"
patterns:
  成年雑誌:
    - pattern: '(\d{4})年(\d)月'
      template: '{0}年{1}月'
`))
	require.NoError(t, err)
	f := NewFormatter(table, WithClock(func() time.Time { return pinned }))

	assert.Equal(t, "2024年03月", f.Format("成年雑誌", "2024年3月号", nil))
	assert.Equal(t, "[同人][サークル](C99)本", f.Format("同人", "(C99) [サークル] 本", nil))
	// Comics never carry the prefix.
	assert.Equal(t, "[作者]本", f.Format("コミック", "[作者]本", nil))
	// Kinds missing from prefixes pass through, even known ones.
	assert.Equal(t, "[作者]本", f.Format("成年コミック", "[作者]本", nil))
}

func TestFormat_Options(t *testing.T) {
	t.Run("kana off", func(t *testing.T) {
		f := newTestFormatter(t, WithKana(false))
		assert.Equal(t, "[sato]hello", f.Format("コミック", "[SATO]hello", nil))
	})
	t.Run("name normalization", func(t *testing.T) {
		f := newTestFormatter(t, WithNameNormalization(true))
		assert.Equal(t, "ABC 本", f.Format("その他", "ＡＢＣ　本", nil))
	})
	t.Run("nil table uses default", func(t *testing.T) {
		f := NewFormatter(nil, WithClock(func() time.Time { return pinned }))
		assert.Equal(t, "20250618", f.Format("画集", "なにか", nil))
	})
}

func TestNormalize(t *testing.T) {
	f := newTestFormatter(t)
	got := f.Normalize(Row{Kind: "コミック", Name: "[作者]本第1巻"}, nil)
	want := NormalizedRow{
		Kind:      "コミック",
		Name:      "[作者]本第1巻",
		Title:     "[作者]本 第1巻",
		Rule:      RuleComic,
		EmittedAt: pinned,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Normalize mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatTitle(t *testing.T) {
	assert.Equal(t, "x", FormatTitle("DVD", "x"))
	assert.Equal(t, "[作者A]すごい漫画 第2巻", FormatTitle("コミック", "[作者A][DL版]すごい漫画第2巻"))
}

func TestFormat_Concurrent(t *testing.T) {
	f := newTestFormatter(t)
	unknown := NewUnknownSeriesSet()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f.Format("同人", "(C105) [サークル] 本 (シリーズA)", unknown)
			f.Format("同人", "(C105) [サークル] 本 (シリーズB)", unknown)
		}()
	}
	wg.Wait()
	assert.Equal(t, []string{"シリーズA", "シリーズB"}, unknown.Drain())
}
