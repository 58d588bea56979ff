/*
 * errors.go, part of refine
 *
 * Copyright 2024 The refine developers
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package refine

import "strings"

// Error is the interface for errors that all packages in this library
// implement. The Decorate method allows to add and retrieve info from
// the error without changing its type or wrapping it in something
// else. Each call returns the current decoration slice, which should
// read as a list of the functions in the calling stack, plus, for
// each, any relevant extra info in the format "FunctionName: info".
// If passed an empty string it only returns the current value.
type Error interface {
	error
	Decorate(string) []string
}

//ConfigError reports malformed or duplicate definitions handed to a
//manager: an already registered dihedral definition, mismatched
//atom-name and externality slices, an interpolation grid whose data
//does not match its declared shape, and the like. These are caller
//bugs, so they are returned immediately and never retried.
type ConfigError struct {
	msg  string
	deco []string
}

//NewConfigError returns a ConfigError with the given message,
//decorated with the name of the function reporting it.
func NewConfigError(msg string, caller string) *ConfigError {
	return &ConfigError{msg: msg, deco: []string{caller}}
}

func (err *ConfigError) Error() string {
	return "refine: " + err.msg + " (" + strings.Join(err.deco, "/") + ")"
}

func (err *ConfigError) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

//DomainError reports an attempt to create or mutate an object in
//violation of a structural constraint: restraining an atom belonging
//to a different structure, a hydrogen, a directly bonded pair, or
//building a descriptor from atoms that do not form the required
//bonded chain. Like ConfigError it propagates straight to the caller.
type DomainError struct {
	msg  string
	deco []string
}

//NewDomainError returns a DomainError with the given message,
//decorated with the name of the function reporting it.
func NewDomainError(msg string, caller string) *DomainError {
	return &DomainError{msg: msg, deco: []string{caller}}
}

func (err *DomainError) Error() string {
	return "refine: " + err.msg + " (" + strings.Join(err.deco, "/") + ")"
}

func (err *DomainError) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

//errDecorate adds the caller to err's decoration if err implements
//Error, and returns err either way.
func errDecorate(err error, caller string) error {
	if err == nil {
		return nil
	}
	if e, ok := err.(Error); ok {
		e.Decorate(caller)
	}
	return err
}
