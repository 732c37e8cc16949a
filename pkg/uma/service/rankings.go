package service

import (
	"sort"

	"github.com/latoulicious/umaroster/pkg/uma/shared"
)

// SparkGroup collects the sparks sharing one name, ordered by id
type SparkGroup struct {
	Name   string
	Sparks []shared.Spark
}

// SparkRankings lists Stat and Aptitude sparks grouped by name
type SparkRankings struct {
	Stat     []SparkGroup
	Aptitude []SparkGroup
}

// BuildSparkRankings groups Stat and Aptitude sparks by name. Groups are
// ordered by their smallest spark id.
func BuildSparkRankings(sparks []shared.Spark) SparkRankings {
	return SparkRankings{
		Stat:     groupByName(sparks, shared.CategoryStat),
		Aptitude: groupByName(sparks, shared.CategoryAptitude),
	}
}

func groupByName(sparks []shared.Spark, category shared.Category) []SparkGroup {
	index := make(map[string]int)
	var groups []SparkGroup

	for _, s := range sparks {
		if s.Category != category {
			continue
		}
		i, ok := index[s.Name]
		if !ok {
			i = len(groups)
			index[s.Name] = i
			groups = append(groups, SparkGroup{Name: s.Name})
		}
		groups[i].Sparks = append(groups[i].Sparks, s)
	}

	for i := range groups {
		sort.Slice(groups[i].Sparks, func(a, b int) bool {
			return groups[i].Sparks[a].ID < groups[i].Sparks[b].ID
		})
	}
	sort.SliceStable(groups, func(a, b int) bool {
		return groups[a].Sparks[0].ID < groups[b].Sparks[0].ID
	})

	return groups
}
