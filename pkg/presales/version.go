// Package presales holds build metadata for the presales module.
package presales

// Version is the release version of the presales binary.
const Version = "0.1.0"
