package errow

// Codes are grouped in ranges; response.ConvertError picks the handler of the
// highest range start that is <= the code.
const (
	BadRequest ErrorWCode = 40000 + iota
	InvalidJSONArray
	InvalidSenderConfig
	NoSenderConfig
	NotCSVFile
	MissingUploadFile
)

const (
	Unauthorized ErrorWCode = 40100 + iota
	InvalidSigningMethod
	InvalidToken
	LicenseRequired
)

const (
	Forbidden ErrorWCode = 40300 + iota
)

const (
	ResourceNotFound ErrorWCode = 40400 + iota
)

const (
	SessionExpired ErrorWCode = 44000 + iota
)

const (
	UnprocessableEntity ErrorWCode = 42200 + iota
	CSVParseFailed
	CSVEmpty
	VariablesNotInCSV
	MissingEmailColumn
)

const (
	InternalServer ErrorWCode = 50000 + iota
	ConfigModeNotFound
	ConfigFileCorrupt
	SystemInfoUnavailable
	StoreUnavailable
)
