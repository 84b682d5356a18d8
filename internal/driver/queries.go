package driver

const (
	SaveProcessNodeQuery = `
		MERGE (p:Process {name: $name})
		SET p.uuid = $uuid,
			p.folder_id = $folder_id,
			p.created_at = $created_at
		RETURN p.uuid AS uuid
	`

	SaveStepNodeQuery = `
		MATCH (p:Process {name: $process_name})
		MERGE (s:Step {id: $id})
		SET s.name = $name,
			s.type = $type,
			s.folder_id = $folder_id
		MERGE (p)-[:HAS_STEP]->(s)
		RETURN s.id AS id
	`

	SaveNextStepEdgeQuery = `
		MATCH (source:Step {id: $from_id})
		MATCH (target:Step {id: $to_id})
		MERGE (source)-[e:NEXT {relation: $relation}]->(target)
		RETURN source.id AS from_id
	`

	GetSkeletonNodesQuery = `
		MATCH (p:Process {name: $name})-[:HAS_STEP]->(s:Step)
		RETURN s.id AS id, s.name AS name, s.type AS type, s.folder_id AS folder_id
		ORDER BY s.id
	`

	GetSkeletonEdgesQuery = `
		MATCH (p:Process {name: $name})-[:HAS_STEP]->(a:Step)-[e:NEXT]->(b:Step)
		RETURN a.id AS from_id, b.id AS to_id, e.relation AS relation
		ORDER BY a.id, b.id
	`

	ListProcessesQuery = `
		MATCH (p:Process)
		RETURN p.name AS name, p.uuid AS uuid
		ORDER BY p.name
	`
)
