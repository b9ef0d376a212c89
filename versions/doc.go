package versions

// Package versions loads published AVSC documents from a versioned layout:
//
//	versions.json          // ["1.0.0", "1.2.0", "1.10.0"]
//	1.10.0/schema.avsc
//	1.2.0/schema.avsc
//
// A Source abstracts where the layout lives (a directory or an HTTP base URL);
// a Loader picks a version, parses it with goavsc and publishes the result as a
// Snapshot that concurrent readers can fetch with Current.
