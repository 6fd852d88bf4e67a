package result

// Scanner reads a query result into a destination. Every Scan method closes the result.
type Scanner interface {
	ScanStruct(dest interface{}) error
	ScanMap(dest map[string]interface{}) error
	ScanStructs(dest interface{}) error
	ScanMaps(dest *[]map[string]interface{}) error
	Close() error
}
