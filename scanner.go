package userstream

type scanKind int

const (
	noScanner scanKind = iota + 1
	scannerMap
	scannerMaps
	scannerStruct
	scannerStructs
)

// scanTarget is the destination chosen with one of the Runner Scan methods.
type scanTarget struct {
	kind scanKind
	dest interface{}
}

func newScanTarget(kind scanKind, dest interface{}) *scanTarget {
	return &scanTarget{kind: kind, dest: dest}
}
