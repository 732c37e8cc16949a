package service

import (
	"fmt"
	"strings"

	"github.com/latoulicious/umaroster/pkg/uma/shared"
)

// Loadout quotas
const (
	RequiredStatSparks     = 1
	RequiredAptitudeSparks = 1
	MaxUniqueSkillSparks   = 3
	RequiredInspirations   = 2
)

// Rule numbers reported by ValidateLoadout, in evaluation order
const (
	RuleName = iota + 1
	RuleStat
	RuleAptitude
	RuleUniqueSkill
	RuleDuplicateSpark
	RuleInspirations
	RuleUnknownSpark
	RuleRarity
	RuleInspirationInRoster
)

// ValidationResult is the outcome of ValidateLoadout. Rule is 0 when Valid.
type ValidationResult struct {
	Valid   bool
	Rule    int
	Message string
}

// Err returns nil for a valid result and a *shared.ValidationError otherwise
func (r ValidationResult) Err() error {
	if r.Valid {
		return nil
	}
	return &shared.ValidationError{Rule: r.Rule, Message: r.Message}
}

func invalid(rule int, format string, args ...interface{}) ValidationResult {
	return ValidationResult{Rule: rule, Message: fmt.Sprintf(format, args...)}
}

// ValidateLoadout decides whether sel may be saved against the spark catalog.
// Rules run in a fixed order and the first violation is reported.
// Sparks missing from the catalog count toward no category.
func ValidateLoadout(sel shared.LoadoutSelection, sparkByID map[int]shared.Spark) ValidationResult {
	if strings.TrimSpace(sel.Name) == "" {
		return invalid(RuleName, "name must not be empty")
	}

	counts := make(map[shared.Category]int, 4)
	for _, ref := range sel.Sparks {
		if spark, ok := sparkByID[ref.SparkID]; ok {
			counts[spark.Category]++
		}
	}

	if counts[shared.CategoryStat] != RequiredStatSparks {
		return invalid(RuleStat, "exactly one Stat spark required")
	}
	if counts[shared.CategoryAptitude] != RequiredAptitudeSparks {
		return invalid(RuleAptitude, "exactly one Aptitude spark required")
	}
	if counts[shared.CategoryUniqueSkill] > MaxUniqueSkillSparks {
		return invalid(RuleUniqueSkill, "at most %d Unique Skill sparks allowed", MaxUniqueSkillSparks)
	}

	seen := make(map[int]struct{}, len(sel.Sparks))
	for _, ref := range sel.Sparks {
		if _, dup := seen[ref.SparkID]; dup {
			return invalid(RuleDuplicateSpark, "spark %d selected more than once", ref.SparkID)
		}
		seen[ref.SparkID] = struct{}{}
	}

	if sel.Inspiration1 == nil || sel.Inspiration2 == nil || *sel.Inspiration1 == *sel.Inspiration2 {
		return invalid(RuleInspirations, "exactly two distinct inspirations required")
	}
	if sel.OwnerID != nil && (*sel.Inspiration1 == *sel.OwnerID || *sel.Inspiration2 == *sel.OwnerID) {
		return invalid(RuleInspirations, "an umamusume cannot be its own inspiration")
	}

	for _, ref := range sel.Sparks {
		if _, ok := sparkByID[ref.SparkID]; !ok {
			return invalid(RuleUnknownSpark, "spark %d is not in the catalog", ref.SparkID)
		}
	}

	for _, ref := range sel.Sparks {
		if ref.Rarity < shared.MinRarity || ref.Rarity > shared.MaxRarity {
			return invalid(RuleRarity, "spark %d rarity must be between %d and %d", ref.SparkID, shared.MinRarity, shared.MaxRarity)
		}
	}

	return ValidationResult{Valid: true}
}
