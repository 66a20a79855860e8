package enum

// RecordSource tells which shape a catalog record arrived in: rows typed
// into the local inventory or rows pulled from the wholesaler catalog API.
type RecordSource string

const (
	RecordSourceLocal RecordSource = "local"
	RecordSourceAPI   RecordSource = "api"
)
