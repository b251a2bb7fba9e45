package assets

import (
	"strings"
	"testing"
)

func TestDecorCatalog(t *testing.T) {
	want := map[string]int{
		"chair": 1, "beanbag": 2, "rug": 3, "poster": 1,
		"plant": 2, "lamp": 2, "bookshelf": 5,
	}
	if len(Decor) != len(want) {
		t.Fatalf("len(Decor) = %d; want %d", len(Decor), len(want))
	}
	for id, readers := range want {
		d, ok := DecorByID(id)
		if !ok {
			t.Errorf("DecorByID(%q) not found", id)
			continue
		}
		if d.Readers != readers {
			t.Errorf("%s readers = %d; want %d", id, d.Readers, readers)
		}
	}
	if _, ok := DecorByID("throne"); ok {
		t.Error("unknown decor id should not be found")
	}
}

func TestThemeCycleOrder(t *testing.T) {
	names := []string{"Picture Book Meadow", "Animals & Nature Wing", "Space & Science Zone", "Mystery Corner"}
	colors := []string{"peach", "mint", "sky", "lavender"}
	if len(Themes) != len(names) {
		t.Fatalf("len(Themes) = %d; want %d", len(Themes), len(names))
	}
	for i, th := range Themes {
		if th.Name != names[i] || th.Color != colors[i] {
			t.Errorf("Themes[%d] = %s/%s; want %s/%s", i, th.Name, th.Color, names[i], colors[i])
		}
		for j, c := range th.Categories {
			if c == "" {
				t.Errorf("%s category %d is empty", th.Name, j)
			}
		}
	}
	if _, ok := ThemeByName(StarterTheme); !ok {
		t.Errorf("starter theme %q missing from catalog", StarterTheme)
	}
}

func TestArrivalLinesHaveOnePlaceholder(t *testing.T) {
	for _, th := range Themes {
		lines, ok := ArrivalLines[th.Name]
		if !ok || len(lines) == 0 {
			t.Errorf("theme %q has no arrival lines", th.Name)
		}
		for _, l := range lines {
			if strings.Count(l, "%s") != 1 {
				t.Errorf("line %q must contain exactly one %%s", l)
			}
		}
	}
}
