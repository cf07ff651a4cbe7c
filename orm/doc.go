/*
Package orm provides an easy to use db wrapper

Break state space into prefixed sections called Buckets. Each bucket
contains only one type of Model, and secondary indexes may be declared on
it. Keys are generated by a Sequence when none is given.

A bucket stores protobuf serialized models under "<bucket name>:<key>".
Index entries live under "_i.<bucket name>_<index name>:<index key>" and
hold the list of primary keys referencing them.
*/
package orm
