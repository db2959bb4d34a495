package repository

// Tx is an opaque transaction handle. The concrete type is infra-defined
// (pgx.Tx for Postgres); repositories accept nil for the non-transactional path.
type Tx interface{}

// NoTX is passed where no transaction is in flight.
var NoTX Tx
