package platform

// GraphQL operation names. The fake platform dispatches on these.
const (
	OpUserData    = "UserData"
	OpSkillScores = "SkillScores"
)

// DefaultSkillTypes are the transaction types charted on the skill radar.
var DefaultSkillTypes = []string{
	"skill_go",
	"skill_js",
	"skill_html",
	"skill_css",
	"skill_unix",
	"skill_docker",
	"skill_sql",
	"skill_technologies",
}

const userDataQuery = `query UserData($path: String!) {
  user {
    id
    login
    firstName
    lastName
    email
    campus
    createdAt
    totalUp
    totalDown
    auditRatio
  }
  transaction(
    where: { type: { _eq: "xp" }, event: { path: { _eq: $path } } }
    order_by: { createdAt: asc }
  ) {
    amount
    createdAt
  }
  progress(where: { object: { type: { _eq: "project" } } }) {
    id
    grade
    createdAt
    object {
      id
      name
      type
    }
  }
}`

const skillScoresQuery = `query SkillScores($types: [String!]!) {
  transaction(
    where: { type: { _in: $types }, object: { type: { _eq: "project" } } }
    order_by: [{ type: asc }, { createdAt: desc }]
    distinct_on: type
  ) {
    type
    amount
    createdAt
  }
}`

// Request is the body of a GraphQL POST.
type Request struct {
	OperationName string         `json:"operationName"`
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables,omitempty"`
}

// Response is the GraphQL envelope.
type Response struct {
	Data   any             `json:"data,omitempty"`
	Errors []ResponseError `json:"errors,omitempty"`
}

// ResponseError is one entry of the GraphQL errors array.
type ResponseError struct {
	Message string `json:"message"`
}
