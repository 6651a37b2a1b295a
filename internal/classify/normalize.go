package classify

import (
	"fmt"
	"time"

	"github.com/jvilaplana/holdfolio/internal/models"
)

// Normalized is the canonical shape of one upstream record after field
// coalescing. Upstream payloads name the same fields differently per
// endpoint, so every field is resolved through an ordered candidate list.
type Normalized struct {
	ExternalID     string
	Name           string
	Description    string
	Amount         float64
	OriginalAmount float64
	HasOriginal    bool
	AccountCode    string
	RawCategory    string
	SourceEndpoint string
}

// Normalize coalesces a raw record into its canonical shape. Missing fields
// never raise errors: amounts default to 0 and names fall back to a
// synthesized label carrying the record's position in the batch.
func Normalize(record models.RawRecord, index int) Normalized {
	amount, _ := record.FirstNumber("total", "amount", "subtotal")

	name := record.FirstString("name", "desc", "subject")
	if name == "" {
		name = fmt.Sprintf("Investment %d", index+1)
	}

	externalID := record.String("id")
	if externalID == "" {
		externalID = fmt.Sprintf("holded_%d_%d", index, time.Now().UnixMilli())
	}

	original, hasOriginal := record.Number("originalAmount")

	return Normalized{
		ExternalID:     externalID,
		Name:           name,
		Description:    record.FirstString("desc", "subject"),
		Amount:         amount,
		OriginalAmount: original,
		HasOriginal:    hasOriginal,
		AccountCode:    record.FirstString("accountCode", "code"),
		RawCategory:    record.String("category"),
		SourceEndpoint: record.String("source_endpoint"),
	}
}
