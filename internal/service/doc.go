// Package service contains the application use cases. Services coordinate
// domain objects and stores, apply ownership and visibility rules, and draw
// transaction boundaries where an operation spans more than one store.
//
// Live study and match sessions are managed by the sessions subpackage and
// their progress is persisted by the progress subpackage.
package service
