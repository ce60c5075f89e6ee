package record

const (
	// IndexKey holds the JSON array of every record id.
	IndexKey = "record_keys"

	recordKeyPrefix = "record_"
)

// Key is the store key of the record with the given id.
func Key(id string) string {
	return recordKeyPrefix + id
}
