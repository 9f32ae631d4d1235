package log

// Version of the log package API.
const Version = "1.0.0"
