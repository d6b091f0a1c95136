package attendance

import (
	"encoding/json"
	"fmt"

	"github.com/sahiltiwari-png/guccc-hrms/internal/apiclient"
)

// decodeList reads an attendance list. The backend answers either with a
// paginated `items` list or with a single `attendance` object.
func decodeList(raw []byte, limit int) (apiclient.Page[Record], error) {
	var page apiclient.Page[Record]
	if err := json.Unmarshal(raw, &page); err != nil {
		return apiclient.Page[Record]{}, fmt.Errorf("decode attendance list: %w", err)
	}
	if len(page.Items) == 0 {
		if single, ok := decodeSingle(raw); ok {
			page.Items = []Record{single}
			page.Total = 1
		}
	}
	if page.Items == nil {
		page.Items = []Record{}
	}
	return page.Normalize(limit), nil
}

// decodeSingle reads `{attendance:{...}}`, `{data:{...}}` or a bare record.
func decodeSingle(raw []byte) (Record, bool) {
	var wrapped struct {
		Attendance *Record `json:"attendance"`
		Data       *Record `json:"data"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil {
		switch {
		case wrapped.Attendance != nil && wrapped.Attendance.ID != "":
			return *wrapped.Attendance, true
		case wrapped.Data != nil && wrapped.Data.ID != "":
			return *wrapped.Data, true
		}
	}
	var bare Record
	if err := json.Unmarshal(raw, &bare); err == nil && bare.ID != "" {
		return bare, true
	}
	return Record{}, false
}
