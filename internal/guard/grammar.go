package guard

import _ "embed"

// safetyGrammar is the GBNF grammar sent with every classification request.
// It forces the model output into the exact ModResult JSON schema: no prose,
// no extra keys, no categories outside the closed set.
//
//go:embed grammar/safety_json.gbnf
var safetyGrammar string
