package canon

import "strings"

// Cluster is a canonical activity name and the labels it absorbs.
type Cluster struct {
	Name     string   `toml:"name"`
	Synonyms []string `toml:"synonyms"`
}

// Table is the ordered synonym configuration. Order matters: the first
// cluster that matches a label wins.
type Table []Cluster

// DefaultTable returns the built-in clusters used when the config has none.
func DefaultTable() Table {
	return Table{
		{Name: "入浴", Synonyms: []string{"風呂", "お風呂", "シャワー", "温泉", "bath", "shower"}},
		{Name: "音楽活動", Synonyms: []string{"ギター", "作曲", "楽器練習", "music", "guitar"}},
		{Name: "運動", Synonyms: []string{"散歩", "ジョギング", "筋トレ", "ランニング", "walking", "running"}},
		{Name: "配信業務", Synonyms: []string{"配信", "ライブ配信", "OBS設定", "配信準備", "stream"}},
		{Name: "コンテンツ消費", Synonyms: []string{"youtube", "netflix", "hulu", "映画鑑賞", "movie"}},
	}
}

// Names returns the cluster names in table order.
func (t Table) Names() []string {
	names := make([]string, 0, len(t))
	for _, c := range t {
		names = append(names, c.Name)
	}
	return names
}

// Has reports whether name is a configured cluster.
func (t Table) Has(name string) bool {
	for _, c := range t {
		if c.Name == name {
			return true
		}
	}
	return false
}

// Normalize trims whitespace around names and synonyms and drops empty synonyms.
func (t Table) Normalize() Table {
	out := make(Table, 0, len(t))
	for _, c := range t {
		n := Cluster{Name: strings.TrimSpace(c.Name)}
		for _, s := range c.Synonyms {
			if s = strings.TrimSpace(s); s != "" {
				n.Synonyms = append(n.Synonyms, s)
			}
		}
		out = append(out, n)
	}
	return out
}
