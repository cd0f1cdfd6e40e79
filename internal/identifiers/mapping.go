package identifiers

import (
	"github.com/JaimeStill/slopjournal/pkg/query"
	"github.com/JaimeStill/slopjournal/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "public_identifiers", "pi").
	Project("id", "ID").
	Project("document_id", "DocumentID").
	Project("public_id", "PublicID").
	Project("created_at", "CreatedAt")

func scanIdentifier(s repository.Scanner) (Identifier, error) {
	var i Identifier
	err := s.Scan(&i.ID, &i.DocumentID, &i.PublicID, &i.CreatedAt)
	return i, err
}
