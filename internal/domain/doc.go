// Package domain contains the core entities of the account service and
// their validation rules. Entities here carry no persistence or transport
// concerns; those live in the store and api packages respectively.
package domain
