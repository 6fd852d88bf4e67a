package vars

const (
	// TagKey is the struct tag used to map columns and params to struct fields.
	TagKey = "db"

	// DefaultTable is the table streamed when the config does not name one.
	DefaultTable = "user_data"

	// DefaultPagingLimit is the page size used when none is given.
	DefaultPagingLimit = 100

	// DefaultSort is the stable sort key used for paging.
	DefaultSort = "+user_id"

	// DefaultMinAge is the age threshold of the batch filter.
	DefaultMinAge = 25

	// DefaultDatabaseName is the MariaDB schema created when it is missing.
	DefaultDatabaseName = "ALX_prodev"
)
