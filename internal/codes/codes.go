package codes

// ErrorCodes maps engine process exit codes to their descriptions. The
// engine binaries are Rust programs driven by clap, so the interesting
// codes are the conventional process ones plus the Rust panic code.
var ErrorCodes = map[int]string{
	0:   "Success",
	1:   "General failure",
	2:   "Usage error (bad or missing arguments)",
	101: "Engine panic",
	124: "Timed out",
	137: "Killed (SIGKILL, likely out of memory)",
	139: "Segmentation fault",
	143: "Terminated (SIGTERM)",
}

// IsSuccess returns true if the exit code indicates a successful run
func IsSuccess(code int) bool {
	return code == 0
}

// GetErrorMessage returns the error message for a given exit code, or a generic message if unknown
func GetErrorMessage(code int) string {
	if msg, ok := ErrorCodes[code]; ok {
		return msg
	}

	return "Unknown error"
}
