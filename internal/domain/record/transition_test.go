package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthorize(t *testing.T) {
	rec := Record{Owner: "0xAbCdEf"}

	tests := []struct {
		name      string
		requester string
		wantErr   bool
	}{
		{name: "exact match", requester: "0xAbCdEf"},
		{name: "lower case", requester: "0xabcdef"},
		{name: "upper case", requester: "0XABCDEF"},
		{name: "different identity", requester: "0xabcdee", wantErr: true},
		{name: "prefix only", requester: "0xAbCd", wantErr: true},
		{name: "empty requester", requester: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(rec, tt.requester)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnauthorized)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestAuthorize_EmptyOwner(t *testing.T) {
	assert.ErrorIs(t, Authorize(Record{}, ""), ErrUnauthorized)
}

func TestTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    Status
		target  Status
		want    Status
		wantErr error
	}{
		{name: "pending to verified", from: StatusPending, target: StatusVerified, want: StatusVerified},
		{name: "pending to rejected", from: StatusPending, target: StatusRejected, want: StatusRejected},
		{name: "pending to pending", from: StatusPending, target: StatusPending, wantErr: ErrInvalidTransition},
		{name: "pending to unknown", from: StatusPending, target: "archived", wantErr: ErrInvalidTransition},
		{name: "verified to rejected", from: StatusVerified, target: StatusRejected, wantErr: ErrInvalidTransition},
		{name: "verified to verified", from: StatusVerified, target: StatusVerified, wantErr: ErrInvalidTransition},
		{name: "verified to pending", from: StatusVerified, target: StatusPending, wantErr: ErrInvalidTransition},
		{name: "rejected to verified", from: StatusRejected, target: StatusVerified, wantErr: ErrInvalidTransition},
		{name: "rejected to rejected", from: StatusRejected, target: StatusRejected, wantErr: ErrInvalidTransition},
		{name: "rejected to pending", from: StatusRejected, target: StatusPending, wantErr: ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := Record{ID: "r1", Owner: "0xA", Status: tt.from}

			got, err := Transition(rec, tt.target, "0xa")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, tt.from, got.Status)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Status)
			assert.Equal(t, tt.from, rec.Status)
		})
	}
}

func TestTransition_NonOwner(t *testing.T) {
	for _, from := range []Status{StatusPending, StatusVerified, StatusRejected} {
		t.Run(string(from), func(t *testing.T) {
			rec := Record{ID: "r1", Owner: "0xA", Status: from}

			_, err := Transition(rec, StatusVerified, "0xB")

			assert.ErrorIs(t, err, ErrUnauthorized)
		})
	}
}
