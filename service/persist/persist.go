package persist

// DBID is the identifier used for every stored document
type DBID string

func (d DBID) String() string {
	return string(d)
}

// DocumentNotFoundError is returned when an update matched no document
type DocumentNotFoundError struct{}

func (e DocumentNotFoundError) Error() string {
	return "could not find document"
}
