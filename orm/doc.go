/*
Package orm provides an easy to use db wrapper

Break state space into prefixed sections called Buckets.
Each bucket contains only one type of model, stored under its primary key,
and may define secondary indexes over the stored models. Indexes are kept up
to date on every Put and Delete, and each of them can be exposed to the
ABCI query router next to the bucket itself.
*/
package orm
