// Package model defines the gradebook document: student profiles, per-subject score
// sheets, custom subjects, and attendance, nested by academic year and class.
package model
