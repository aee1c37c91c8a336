package core

import (
	"errors"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortBySurname orders employees by surname using the root-locale collation.
// The sort is stable, so employees sharing a surname keep their input order.
func SortBySurname(employees []Employee) {
	c := collate.New(language.Und)
	slices.SortStableFunc(employees, func(a, b Employee) int {
		return c.CompareString(a.Surname, b.Surname)
	})
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
