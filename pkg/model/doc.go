// Package model owns the operations tree: the sites, their programs and
// the functions of each program, plus the dataflow edges between
// functions.
//
// The model is fed configuration keys one at a time. [Model.UpdateKey]
// creates whatever sites, programs and functions the key names and applies
// the value to the addressed item; [Model.DeleteKey] clears a property.
// Whole subtrees are dropped with [Model.RemoveSite], [Model.RemoveProgram]
// and [Model.RemoveFunction].
//
// # Dataflow edges
//
// A function learns its upstream functions from its worker configuration.
// Parents that do not exist yet are kept pending and connected as soon as
// a function with the expected name appears. A parent running on another
// site is assumed to be the top-half of the same program and function on
// that site.
//
// # Events
//
// Every change is reported to an [observability.ModelHooks], which is how
// views stay in sync with the model.
//
// A Model is not safe for concurrent use.
package model
