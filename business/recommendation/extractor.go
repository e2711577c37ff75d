package recommendation

import (
	"sort"

	"wildNest/domain"
)

// selection is what the user's answers resolve to.
type selection struct {
	// every submitted option id, unknown ones included, in question order
	optionIDs []uint64
	// options that exist in the catalog
	options     []domain.Option
	tags        map[string]struct{}
	totalWeight float64
}

// flattenAnswers walks questions in ascending id so the result does not
// depend on map iteration order. Duplicates are kept.
func flattenAnswers(answers domain.UserAnswers) []uint64 {
	questionIDs := make([]uint64, 0, len(answers))
	for qid := range answers {
		questionIDs = append(questionIDs, qid)
	}
	sort.Slice(questionIDs, func(i, j int) bool { return questionIDs[i] < questionIDs[j] })

	var ids []uint64
	for _, qid := range questionIDs {
		ids = append(ids, answers[qid]...)
	}
	return ids
}

func indexOptions(options []domain.Option) map[uint64]domain.Option {
	byID := make(map[uint64]domain.Option, len(options))
	for _, o := range options {
		byID[o.ID] = o
	}
	return byID
}

func extractSelection(answers domain.UserAnswers, options []domain.Option) selection {
	sel := selection{
		optionIDs: flattenAnswers(answers),
		tags:      make(map[string]struct{}),
	}

	byID := indexOptions(options)
	for _, id := range sel.optionIDs {
		opt, ok := byID[id]
		if !ok {
			continue
		}
		sel.options = append(sel.options, opt)
		sel.totalWeight += opt.Weight()
		for _, tag := range opt.Tags() {
			sel.tags[tag] = struct{}{}
		}
	}

	return sel
}
