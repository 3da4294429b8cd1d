// Package model contains the interfaces shared by the packages of
// this module.
//
// The mocks subpackage contains test doubles for these interfaces.
//
// The content of this package is organized as follows:
//
// - credential.go: the credential store contract;
//
// - http.go: the HTTP client contract and common header names;
//
// - keyvaluestore.go: the persistent key-value store contract;
//
// - logger.go: an apex/log compatible logger.
package model
