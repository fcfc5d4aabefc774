package photos

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/m04kA/SMC-OrderFlow/internal/domain"
)

var (
	interiorKeywords = []string{"interior", "inside", "iç"}
	exteriorKeywords = []string{"exterior", "outside", "dış"}
)

// Categorize assigns a category to every image without one.
//
// Explicit categories are kept. Untagged images are matched by filename
// keywords; when the keywords do not identify both categories the untagged
// images are split positionally, first half interior. Images matching
// neither keyword go to the smaller category, interior on ties.
func Categorize(images []domain.VehicleImage) []domain.VehicleImage {
	out := make([]domain.VehicleImage, len(images))
	copy(out, images)

	counts := map[domain.PhotoCategory]int{}
	var untagged []int
	for i := range out {
		if out[i].Category.IsValid() {
			counts[out[i].Category]++
			continue
		}
		out[i].Category = ""
		untagged = append(untagged, i)
	}
	if len(untagged) == 0 {
		return out
	}

	guesses := make([]domain.PhotoCategory, len(untagged))
	var interiorHits, exteriorHits int
	for k, i := range untagged {
		guesses[k] = guessCategory(out[i].Filename)
		switch guesses[k] {
		case domain.PhotoInterior:
			interiorHits++
		case domain.PhotoExterior:
			exteriorHits++
		}
	}

	if interiorHits == 0 || exteriorHits == 0 {
		half := len(untagged) / 2
		for k, i := range untagged {
			if k < half {
				out[i].Category = domain.PhotoInterior
			} else {
				out[i].Category = domain.PhotoExterior
			}
		}
		return out
	}

	counts[domain.PhotoInterior] += interiorHits
	counts[domain.PhotoExterior] += exteriorHits
	for k, i := range untagged {
		if guesses[k] != "" {
			out[i].Category = guesses[k]
			continue
		}
		c := domain.PhotoInterior
		if counts[domain.PhotoExterior] < counts[domain.PhotoInterior] {
			c = domain.PhotoExterior
		}
		out[i].Category = c
		counts[c]++
	}
	return out
}

// guessCategory matches filename keywords; empty when none or both match
func guessCategory(filename string) domain.PhotoCategory {
	variants := foldFilename(filename)
	in := containsAny(variants, interiorKeywords)
	ex := containsAny(variants, exteriorKeywords)
	switch {
	case in && !ex:
		return domain.PhotoInterior
	case ex && !in:
		return domain.PhotoExterior
	}
	return ""
}

// foldFilename lower-cases with Turkish rules (I -> ı, İ -> i) and root rules (I -> i)
func foldFilename(filename string) []string {
	return []string{
		cases.Lower(language.Turkish).String(filename),
		cases.Lower(language.Und).String(filename),
	}
}

func containsAny(variants []string, keywords []string) bool {
	for _, v := range variants {
		for _, kw := range keywords {
			if strings.Contains(v, kw) {
				return true
			}
		}
	}
	return false
}
