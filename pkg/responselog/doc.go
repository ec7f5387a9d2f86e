// Package responselog records assessment submissions.
//
// Submissions are opaque JSON values appended per job. The log is durable
// and bounded: once a job holds more than the configured number of entries,
// the oldest are dropped. The log lives in its own database file, apart
// from the entity store.
//
// # Usage
//
//	log, err := responselog.Open(ctx, responselog.Config{Path: "responses.db"})
//	if err != nil {
//	    return err
//	}
//	defer log.Close()
//	entry, err := log.Append(ctx, "job-1", []byte(`{"q1":"A"}`))
package responselog
