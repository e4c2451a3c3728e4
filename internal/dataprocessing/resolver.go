package dataprocessing

import (
	"sort"
	"strings"

	apperrors "ticketlens/internal/errors"
)

// Canonical field names of the ticket schema.
const (
	FieldDate         = "date"
	FieldClient       = "client"
	FieldTicketType   = "ticket_type"
	FieldStatus       = "status"
	FieldResponseDate = "response_date"
)

// RequiredFields are the canonical fields every source file must provide,
// by name or recognized synonym. FieldResponseDate is optional.
var RequiredFields = []string{FieldDate, FieldClient, FieldTicketType, FieldStatus}

// fieldSynonyms maps each canonical field to its known alternate header
// spellings, covering the Bitrix24-flavored exports seen in the wild. All
// entries are normalized once at construction.
var fieldSynonyms = buildSynonyms(map[string][]string{
	FieldDate: {
		"дата", "date", "datetime", "created", "created_at", "дата_создания",
		"дата_обращения", "дата_заявки", "дата_создания_заявки", "время_создания",
		"датасоздания", "date_created", "creation_date", "крайний_срок",
	},
	FieldClient: {
		"client", "customer", "клиент", "заказчик", "компания", "company",
		"организация", "контрагент", "название_компании", "customer_name",
		"client_name", "company_name", "контакт", "contact", "автор",
	},
	FieldTicketType: {
		"тип", "type", "ticket_type", "тип_тикета", "категория", "category",
		"тип_обращения", "вид_обращения", "тип_заявки", "категория_заявки",
		"request_type", "issue_type", "тип_проблемы", "проблема", "уровень",
	},
	FieldStatus: {
		"status", "статус", "state", "состояние", "статус_заявки",
		"состояние_заявки", "ticket_status", "текущий_статус",
		"этап", "стадия", "stage", "ticket_state", "индикатор",
	},
	FieldResponseDate: {
		"response_date", "дата_ответа", "дата_решения", "дата_закрытия",
		"responded_at", "answered_at", "reply_date", "closed_at", "resolved_at",
	},
})

func buildSynonyms(raw map[string][]string) map[string]map[string]bool {
	out := make(map[string]map[string]bool, len(raw))
	for field, variants := range raw {
		set := make(map[string]bool, len(variants))
		for _, v := range variants {
			set[NormalizeColumnName(v)] = true
		}
		out[field] = set
	}
	return out
}

// NormalizeColumnName normalizes a header for matching: lowercase, trimmed,
// spaces and hyphens mapped to underscores. The function is idempotent.
func NormalizeColumnName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.ReplaceAll(n, " ", "_")
	return strings.ReplaceAll(n, "-", "_")
}

// ResolveColumn finds the raw header best matching the target canonical
// field. Matching precedence, first hit wins:
//
//  1. exact normalized equality
//  2. membership in the field's synonym set
//  3. substring containment in either direction
//
// The boolean result reports whether any header matched.
func ResolveColumn(headers []string, target string) (string, bool) {
	normTarget := NormalizeColumnName(target)

	for _, h := range headers {
		if NormalizeColumnName(h) == normTarget {
			return h, true
		}
	}

	if synonyms := fieldSynonyms[target]; synonyms != nil {
		for _, h := range headers {
			if synonyms[NormalizeColumnName(h)] {
				return h, true
			}
		}
	}

	for _, h := range headers {
		normHeader := NormalizeColumnName(h)
		if strings.Contains(normHeader, normTarget) || strings.Contains(normTarget, normHeader) {
			return h, true
		}
	}

	return "", false
}

// ResolveSchema resolves every required canonical field against the header
// set. Resolution is all-or-nothing: if any required field has no match the
// whole call fails with a SchemaMismatchError naming every missing field and
// the available headers. The optional response-date field is resolved
// opportunistically and never causes failure.
func ResolveSchema(headers []string) (map[string]string, error) {
	mapping := make(map[string]string, len(RequiredFields)+1)
	var missing []string

	for _, field := range RequiredFields {
		if header, ok := ResolveColumn(headers, field); ok {
			mapping[field] = header
		} else {
			missing = append(missing, field)
		}
	}

	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, apperrors.NewSchemaMismatchError(missing, headers)
	}

	// The optional response-date column must not shadow a header already
	// claimed by a required field (the substring rule would otherwise match
	// the creation-date column itself).
	claimed := make(map[string]bool, len(mapping))
	for _, h := range mapping {
		claimed[h] = true
	}
	var free []string
	for _, h := range headers {
		if !claimed[h] {
			free = append(free, h)
		}
	}
	if header, ok := ResolveColumn(free, FieldResponseDate); ok {
		mapping[FieldResponseDate] = header
	}

	return mapping, nil
}
