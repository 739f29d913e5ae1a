package logger

import "time"

// TimestampSeparator sits between the clock reading and the message.
const TimestampSeparator = " - "

const timestampLayout = "15:04:05.000"

// TimestampMessage prefixes message with the local wall-clock time as
// "HH:MM:SS.mmm - message". An empty message yields the timestamp and the
// separator only. Every call prepends again; nothing is deduplicated.
func TimestampMessage(message string) string {
	return TimestampMessageAt(time.Now(), message)
}

// TimestampMessageAt is TimestampMessage for a given clock reading.
func TimestampMessageAt(t time.Time, message string) string {
	return t.Format(timestampLayout) + TimestampSeparator + message
}
