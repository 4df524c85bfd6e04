package domain

// BlockRuleKind distinguishes an exact-name rule from a suffix (subdomain)
// rule (§3 addition, supplemental blocklist feature).
type BlockRuleKind uint8

const (
	BlockRuleExact BlockRuleKind = iota
	BlockRuleSuffix
)

// BlockRule is one deny-list entry: a canonical name, the match kind, and
// provenance (which list file it came from).
type BlockRule struct {
	Name   string
	Kind   BlockRuleKind
	Source string
}

// BlockDecision is the outcome of consulting the blocklist for one name.
type BlockDecision struct {
	Blocked     bool
	MatchedRule string
	Source      string
	Kind        BlockRuleKind
}

// EmptyDecision is the canonical "not blocked" result.
func EmptyDecision() BlockDecision {
	return BlockDecision{}
}
