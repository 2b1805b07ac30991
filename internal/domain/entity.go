package domain

import "time"

// Searchable is the contract an application entity fulfills to be indexed.
// SearchValue resolves a declared accessor (property or method name from the
// item metadata) to its current value; missing accessors return nil.
type Searchable interface {
	SearchType() string
	SearchID() int64
	SearchModifiedAt() time.Time
	SearchValue(accessor string) any
}

// LocalizedSearchable is a searchable entity whose documents live in a
// per-language index.
type LocalizedSearchable interface {
	Searchable
	SearchLanguage() string
}
