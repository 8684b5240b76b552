package triage

import "strings"

// GeneralCategory is assigned when no category scores with enough confidence.
const GeneralCategory = "General"

// CategoryKeywords is one row of the category table.
type CategoryKeywords struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// KeywordTables is the classifier configuration. Category order matters:
// on equal scores the earlier category wins.
type KeywordTables struct {
	Categories       []CategoryKeywords `yaml:"categories"`
	StrongIndicators []string           `yaml:"strong_indicators"`
	HighUrgency      []string           `yaml:"high_urgency"`
	MediumUrgency    []string           `yaml:"medium_urgency"`
}

// DefaultKeywordTables returns the built-in municipal keyword tables.
// Multi-word category keywords such as "street lamp" are compared against
// single tokens and therefore never score; urgency phrases are matched as
// substrings and do work across spaces.
func DefaultKeywordTables() KeywordTables {
	return KeywordTables{
		Categories: []CategoryKeywords{
			{Name: "Sanitation & SWM", Keywords: []string{"garbage", "trash", "waste", "clean", "sweep", "dump", "stink", "smell", "kachra", "dustbin"}},
			{Name: "Jal Board / Water Supply", Keywords: []string{"water", "leak", "pipe", "plumbing", "drain", "sewage", "overflow", "pani", "tap"}},
			{Name: "Electricity Board (DISCOM)", Keywords: []string{"light", "pole", "wire", "shock", "electricity", "power", "street lamp", "bijli"}},
			{Name: "PWD & Roads", Keywords: []string{"road", "pothole", "broken", "construction", "bridge", "asphalt", "damage", "sadak"}},
			{Name: "Police & Security", Keywords: []string{"crime", "police", "robbery", "accident", "unsafe", "dark", "theft"}},
			{Name: "Health & Public Welfare", Keywords: []string{"hospital", "ambulance", "disease", "fever", "mosquito", "dengue", "dawa"}},
		},
		StrongIndicators: []string{"garbage", "kachra", "sewage", "pothole", "electricity", "bijli", "robbery", "theft", "dengue", "ambulance"},
		HighUrgency: []string{
			"fire", "flood", "accident", "collapse", "injury",
			"electric shock", "live wire", "sewage overflow", "crime", "medical",
		},
		MediumUrgency: []string{
			"water", "garbage", "streetlight", "drainage", "road damage", "pothole", "pollution",
		},
	}
}

// Normalize lower-cases and trims every keyword and drops empty entries and
// categories without a name.
func (t KeywordTables) Normalize() KeywordTables {
	out := KeywordTables{
		StrongIndicators: normalizeList(t.StrongIndicators),
		HighUrgency:      normalizeList(t.HighUrgency),
		MediumUrgency:    normalizeList(t.MediumUrgency),
	}
	for _, c := range t.Categories {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			continue
		}
		out.Categories = append(out.Categories, CategoryKeywords{Name: name, Keywords: normalizeList(c.Keywords)})
	}
	return out
}

func normalizeList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
