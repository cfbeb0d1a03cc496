// Package permission evaluates capability checks against a user's
// permission set. The default evaluator is plain set membership.
package permission
