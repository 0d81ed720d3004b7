package idleresourcestore

import (
	"regexp"
	"strings"

	"github.com/dalemusser/idlehub/internal/app/system/criteria"
	"github.com/dalemusser/idlehub/internal/app/system/queryplan"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// searchPaths maps search fields onto document paths after the department
// lookup, in scoring order.
var searchPaths = map[queryplan.SearchField]string{
	queryplan.FieldEmployeeCode: "employee_code",
	queryplan.FieldFullName:     "full_name",
	queryplan.FieldPosition:     "position",
	queryplan.FieldDepartment:   "department_name",
	queryplan.FieldSkillSet:     "skill_set",
	queryplan.FieldEmail:        "email",
}

var sortPaths = map[criteria.SortField]string{
	queryplan.SortRelevance:     "relevance",
	queryplan.SortID:            "_id",
	criteria.SortFullName:       "full_name",
	criteria.SortEmployeeCode:   "employee_code",
	criteria.SortDepartmentName: "department_name",
	criteria.SortPosition:       "position",
	criteria.SortStatus:         "status",
	criteria.SortIdleFrom:       "idle_from",
	criteria.SortRate:           "rate",
	criteria.SortCreatedAt:      "created_at",
	criteria.SortUpdatedAt:      "updated_at",
}

// caseInsensitive makes string sorts and comparisons ignore case.
var caseInsensitive = &options.Collation{Locale: "en", Strength: 2}

func contains(term string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}
}

// filterStage matches the predicates that need no joined fields.
func filterStage(p queryplan.Plan) bson.D {
	var and bson.A
	if p.DepartmentID != nil {
		and = append(and, bson.M{"department_id": *p.DepartmentID})
	}
	if p.Status != nil {
		and = append(and, bson.M{"status": string(*p.Status)})
	}
	if p.IdleFromStart != nil {
		and = append(and, bson.M{"idle_from": bson.M{"$gte": *p.IdleFromStart}})
	}
	if p.IdleFromEnd != nil {
		and = append(and, bson.M{"idle_from": bson.M{"$lte": *p.IdleFromEnd}})
	}
	if p.UrgentCutoff != nil {
		and = append(and, bson.M{"idle_from": bson.M{"$lte": *p.UrgentCutoff}})
	}
	if p.Position != "" {
		and = append(and, bson.M{"position": contains(p.Position)})
	}
	for _, s := range p.Skills {
		and = append(and, bson.M{"skill_set": contains(s)})
	}
	if len(and) == 0 {
		return bson.D{{Key: "$match", Value: bson.M{}}}
	}
	return bson.D{{Key: "$match", Value: bson.M{"$and": and}}}
}

func lookupStages() []bson.D {
	return []bson.D{
		{{Key: "$lookup", Value: bson.M{
			"from":         "departments",
			"localField":   "department_id",
			"foreignField": "_id",
			"as":           "dept",
		}}},
		{{Key: "$addFields", Value: bson.M{
			"department_name": bson.M{"$ifNull": bson.A{bson.M{"$arrayElemAt": bson.A{"$dept.name", 0}}, ""}},
		}}},
		{{Key: "$project", Value: bson.M{"dept": 0}}},
	}
}

// searchStage keeps rows where any searchable field contains term.
func searchStage(term string) bson.D {
	or := make(bson.A, 0, len(queryplan.SearchFields))
	for _, f := range queryplan.SearchFields {
		or = append(or, bson.M{searchPaths[f]: contains(term)})
	}
	return bson.D{{Key: "$match", Value: bson.M{"$or": or}}}
}

// relevanceStage scores rows the same way queryplan.Relevance does.
func relevanceStage(term string) bson.D {
	lower := strings.ToLower(term)
	exact := func(path string) bson.M {
		return bson.M{"$eq": bson.A{bson.M{"$toLower": bson.M{"$ifNull": bson.A{"$" + path, ""}}}, lower}}
	}
	partial := func(path string) bson.M {
		return bson.M{"$regexMatch": bson.M{
			"input":   bson.M{"$ifNull": bson.A{"$" + path, ""}},
			"regex":   regexp.QuoteMeta(term),
			"options": "i",
		}}
	}
	branches := bson.A{
		bson.M{"case": exact("employee_code"), "then": queryplan.ScoreExactCode},
		bson.M{"case": exact("full_name"), "then": queryplan.ScoreExactName},
		bson.M{"case": partial("employee_code"), "then": queryplan.ScorePartialCode},
		bson.M{"case": partial("full_name"), "then": queryplan.ScorePartialName},
		bson.M{"case": partial("position"), "then": queryplan.ScorePartialPosition},
		bson.M{"case": partial("department_name"), "then": queryplan.ScorePartialDept},
		bson.M{"case": partial("skill_set"), "then": queryplan.ScorePartialSkill},
		bson.M{"case": partial("email"), "then": queryplan.ScorePartialEmail},
	}
	return bson.D{{Key: "$addFields", Value: bson.M{
		"relevance": bson.M{"$switch": bson.M{"branches": branches, "default": queryplan.ScoreFloor}},
	}}}
}

func sortStage(keys []queryplan.SortKey) bson.D {
	sort := bson.D{}
	for _, k := range keys {
		dir := 1
		if k.Desc {
			dir = -1
		}
		sort = append(sort, bson.E{Key: sortPaths[k.Field], Value: dir})
	}
	return bson.D{{Key: "$sort", Value: sort}}
}

// matchPipeline is every filtering stage of p, department name joined.
func matchPipeline(p queryplan.Plan) mongo.Pipeline {
	pipe := mongo.Pipeline{filterStage(p)}
	pipe = append(pipe, lookupStages()...)
	if p.Search != "" {
		pipe = append(pipe, searchStage(p.Search))
	}
	return pipe
}

// Pipeline translates p into an aggregation over idle_resources.
func Pipeline(p queryplan.Plan) mongo.Pipeline {
	pipe := matchPipeline(p)
	if p.Ranked {
		pipe = append(pipe, relevanceStage(p.Search))
	}
	if len(p.Sort) > 0 {
		pipe = append(pipe, sortStage(p.Sort))
	}
	if p.Offset > 0 {
		pipe = append(pipe, bson.D{{Key: "$skip", Value: int64(p.Offset)}})
	}
	if p.Limit > 0 {
		pipe = append(pipe, bson.D{{Key: "$limit", Value: int64(p.Limit)}})
	}
	return pipe
}

// CountPipeline counts the rows p matches.
func CountPipeline(p queryplan.Plan) mongo.Pipeline {
	return append(matchPipeline(p), bson.D{{Key: "$count", Value: "n"}})
}

// GroupPipeline counts the rows p matches per department.
func GroupPipeline(p queryplan.Plan) mongo.Pipeline {
	return append(matchPipeline(p),
		bson.D{{Key: "$group", Value: bson.M{
			"_id":             "$department_id",
			"department_name": bson.M{"$first": "$department_name"},
			"n":               bson.M{"$sum": 1},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "department_name", Value: 1}, {Key: "_id", Value: 1}}}},
	)
}
