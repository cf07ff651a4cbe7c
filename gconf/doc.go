/*
Package gconf implements a configuration store intended to be used as a
global, in-database configuration.

Each extension owns a single configuration record stored under the
"_c:<package name>" key. The record is a protobuf message that validates
itself before it is written. It can be loaded from the genesis file with
InitConfig and read back at any time with Load.
*/
package gconf
