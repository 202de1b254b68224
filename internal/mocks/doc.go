// Package mocks provides testify mocks of the store and service interfaces
// for service and handler tests.
//
// Store mocks return themselves from WithTx, so transactional service code
// can be tested against a sqlmock database:
//
//	sets := new(mocks.SetStore)
//	sets.On("Create", mock.Anything, mock.Anything).Return(nil)
package mocks
