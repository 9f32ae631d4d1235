package transfer

// Version of the transfer package API.
const Version = "1.0.0"
