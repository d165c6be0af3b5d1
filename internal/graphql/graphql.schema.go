// FilePath: internal/graphql/graphql.schema.go
package graphql

const schemaSDL = `
schema {
  query: Query
  mutation: Mutation
}

# An Auto Export payload object, or a string holding one.
scalar JSON

enum MetricKind {
  sleep
  exercise
  glucose
}

enum ResultStatus {
  success
  warning
  error
}

type IngestResult {
  kind: MetricKind
  status: ResultStatus!
  processed: Int!
  message: String!
  timestamp: String!
  extracted: Int!
  skipped: Int!
}

type IngestStatus {
  kind: MetricKind!
  last: IngestResult!
  calls: Int!
  totalProcessed: Int!
  updatedAt: String!
}

type Query {
  healthCheck: String!
  # Null when status tracking is disabled or nothing was ingested yet.
  lastIngest(kind: MetricKind!): IngestStatus
}

type Mutation {
  ingestSleep(payload: JSON!): IngestResult!
  ingestExercise(payload: JSON!): IngestResult!
  ingestGlucose(payload: JSON!): IngestResult!
  ingest(kind: MetricKind!, payload: JSON!): IngestResult!
}
`

// healthMessage is returned by the healthCheck query.
const healthMessage = "GraphQL Health Server Running"

// maxQueryDepth bounds selection nesting. The playground's introspection
// query nests type references about a dozen levels deep.
const maxQueryDepth = 20

// SDL returns the schema definition language source.
func SDL() string {
	return schemaSDL
}
