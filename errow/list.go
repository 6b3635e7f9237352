package errow

var (
	ErrBadRequest          = ErrorW{Code: BadRequest, Message: "bad request"}
	ErrInvalidJSONArray    = ErrorW{Code: InvalidJSONArray, Message: "invalid format, must be a JSON array"}
	ErrInvalidSenderConfig = ErrorW{Code: InvalidSenderConfig, Message: "all fields in each email configuration must be filled"}
	ErrNoSenderConfig      = ErrorW{Code: NoSenderConfig, Message: "no email configurations provided"}
	ErrNotCSVFile          = ErrorW{Code: NotCSVFile, Message: "uploaded file is not a CSV"}
	ErrMissingUploadFile   = ErrorW{Code: MissingUploadFile, Message: "required file is missing"}
)

var (
	ErrUnauthorized         = ErrorW{Code: Unauthorized, Message: "unauthorized"}
	ErrInvalidSigningMethod = ErrorW{Code: InvalidSigningMethod, Message: "invalid signing method"}
	ErrInvalidToken         = ErrorW{Code: InvalidToken, Message: "invalid token"}
	ErrLicenseRequired      = ErrorW{Code: LicenseRequired, Message: "device is not activated"}
)

var (
	ErrForbidden        = ErrorW{Code: Forbidden, Message: "forbidden"}
	ErrResourceNotFound = ErrorW{Code: ResourceNotFound, Message: "resource not found"}
	ErrSessionExpired   = ErrorW{Code: SessionExpired, Message: "session expired"}
)

var (
	ErrUnprocessableEntity = ErrorW{Code: UnprocessableEntity, Message: "unprocessable entity"}
	ErrCSVParseFailed      = ErrorW{Code: CSVParseFailed, Message: "failed to parse CSV"}
	ErrCSVEmpty            = ErrorW{Code: CSVEmpty, Message: "CSV has no header row"}
	ErrVariablesNotInCSV   = ErrorW{Code: VariablesNotInCSV, Message: "variables not found in CSV"}
	ErrMissingEmailColumn  = ErrorW{Code: MissingEmailColumn, Message: "CSV must contain an 'email' column for sending emails"}
)

var (
	ErrInternalServer        = ErrorW{Code: InternalServer, Message: "internal server error"}
	ErrConfigNotFound        = ErrorW{Code: ConfigModeNotFound, Message: "config method not found"}
	ErrConfigFileCorrupt     = ErrorW{Code: ConfigFileCorrupt, Message: "error reading saved email configurations: invalid file format"}
	ErrSystemInfoUnavailable = ErrorW{Code: SystemInfoUnavailable, Message: "failed to retrieve complete system information"}
	ErrStoreUnavailable      = ErrorW{Code: StoreUnavailable, Message: "email configuration store unavailable"}
)
