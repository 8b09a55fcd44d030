package catalog

import "sort"

// AnnotationNumbers assigns display numbers to annotated questions:
// sequential from 1 in ascending display order, counting only the questions
// that carry an annotation. The result is a derived projection recomputed on
// every render, never stored.
func AnnotationNumbers(questions []Question) map[int64]int {
	annotated := make([]Question, 0, len(questions))
	for _, q := range questions {
		if q.Annotated() {
			annotated = append(annotated, q)
		}
	}
	sort.SliceStable(annotated, func(i, j int) bool {
		if annotated[i].DisplayOrder != annotated[j].DisplayOrder {
			return annotated[i].DisplayOrder < annotated[j].DisplayOrder
		}
		return annotated[i].ID < annotated[j].ID
	})
	numbers := make(map[int64]int, len(annotated))
	for i, q := range annotated {
		numbers[q.ID] = i + 1
	}
	return numbers
}
