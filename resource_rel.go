package folio

// ResourceRelationship describes where a resource renders relative to
// another resource of the same kind. It's what the relation calculators on
// CSSLink, CSSInline, JSLink and JSInline return.
type ResourceRelationship string

const (
	// ResourceRelationshipAfter renders the resource after the one it's
	// being compared to.
	ResourceRelationshipAfter ResourceRelationship = "after"

	// ResourceRelationshipBefore renders the resource before the one it's
	// being compared to.
	ResourceRelationshipBefore ResourceRelationship = "before"

	// ResourceRelationshipNeutral places no restriction on the two
	// resources. Leaving the calculator nil is cheaper when a resource
	// never cares about ordering; this value is for calculators that only
	// care about some of the resources they're compared to.
	ResourceRelationshipNeutral ResourceRelationship = "neutral"
)
