package affiliations

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
)

// 同一社員の承認が並走して uq_affiliations_pair に当たっても
// 「既に所属済み」として扱う（Txを巻き戻さない）
func TestIsDuplicateEntry(t *testing.T) {
	dup := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}
	if !isDuplicateEntry(dup) {
		t.Error("1062 should be a duplicate entry")
	}
	if !isDuplicateEntry(fmt.Errorf("insert affiliation: %w", dup)) {
		t.Error("wrapped 1062 should be a duplicate entry")
	}
	if isDuplicateEntry(&mysql.MySQLError{Number: 1452}) {
		t.Error("1452 is not a duplicate entry")
	}
	if isDuplicateEntry(errors.New("boom")) {
		t.Error("plain errors are not duplicate entries")
	}
}
