package operations

import (
	"bytes"
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Cyberx9901/arch-repo-management/internal/convert"
	"github.com/Cyberx9901/arch-repo-management/internal/defaults"
	"github.com/Cyberx9901/arch-repo-management/internal/models"
	"github.com/Cyberx9901/arch-repo-management/internal/repodb"
	"github.com/Cyberx9901/arch-repo-management/internal/repoerrors"
)

const (
	defaultConcurrencyConstant       = 8
	parseMemberErrorTemplateConstant = "unable to parse %s member of '%s': %w"
	duplicatePackageTemplateConstant = "package '%s' is provided by pkgbase '%s' and '%s'"
	orphanedFilesMessageConstant     = "Ignoring files entry without desc entry"
	supersededBaseMessageConstant    = "Ignoring older pkgbase document"
	databaseReadMessageConstant      = "Read repository database"
	jsonFileWrittenMessageConstant   = "Wrote pkgbase JSON file"
	memberParsedMessageConstant      = "Parsed repository database member"
	jsonFileReadMessageConstant      = "Read pkgbase JSON file"
	memberTypeFieldNameConstant      = "member_type"
	archiveMembersFieldNameConstant  = "archive_members"
	jsonFilesDumpedMessageConstant   = "Dumped repository database to JSON files"
	jsonFilesReadMessageConstant     = "Read pkgbase JSON files"
	databaseWrittenMessageConstant   = "Wrote repository database"
	packageFieldNameConstant         = "package"
	pathFieldNameConstant            = "path"
	packageBasesFieldNameConstant    = "package_bases"
	packagesFieldNameConstant        = "packages"
	compressionFieldNameConstant     = "compression"
	databaseTypeFieldNameConstant    = "db_type"
	outputDirectoryFieldNameConstant = "output_directory"
	inputDirectoryFieldNameConstant  = "input_directory"
	baseFieldNameConstant            = "pkgbase"
	keptVersionFieldNameConstant     = "kept_version"
	ignoredVersionFieldNameConstant  = "ignored_version"
)

// NamedPackageBase pairs a pkgbase name with its document.
type NamedPackageBase struct {
	Name        string
	PackageBase models.OutputPackageBase
}

// Service runs conversions between repository databases and JSON documents.
type Service struct {
	logger      *zap.Logger
	clock       repodb.Clock
	concurrency int
}

// NewService constructs a Service. A non-positive concurrency selects the default.
func NewService(logger *zap.Logger, clock repodb.Clock, concurrency int) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if clock == nil {
		clock = repodb.SystemClock{}
	}
	if concurrency <= 0 {
		concurrency = defaultConcurrencyConstant
	}
	return &Service{logger: logger, clock: clock, concurrency: concurrency}
}

// DBFileAsModels reads the database at path and groups its packages by pkgbase.
// The first package of a pkgbase defines the pkgbase level fields.
func (service *Service) DBFileAsModels(executionContext context.Context, path string, compression defaults.Compression) ([]NamedPackageBase, error) {
	archive, readError := repodb.ReadDBFile(path, compression)
	if readError != nil {
		return nil, readError
	}

	members, membersError := archive.Members(executionContext)
	if membersError != nil {
		return nil, membersError
	}

	descOrder := make([]string, 0, len(members))
	packageDescs := make(map[string]models.PackageDesc, len(members))
	packageFiles := make(map[string]models.Files, len(members))
	for _, member := range members {
		switch member.MemberType {
		case defaults.RepoDbMemberTypeDesc:
			desc, parseError := convert.ParseDesc(bytes.NewReader(member.Data))
			if parseError != nil {
				return nil, repoerrors.New(repoerrors.ErrValidation, path, fmt.Errorf(parseMemberErrorTemplateConstant, member.MemberType, member.Name, parseError))
			}
			if _, seen := packageDescs[member.Name]; !seen {
				descOrder = append(descOrder, member.Name)
			}
			packageDescs[member.Name] = desc
		case defaults.RepoDbMemberTypeFiles:
			files, parseError := convert.ParseFiles(bytes.NewReader(member.Data))
			if parseError != nil {
				return nil, repoerrors.New(repoerrors.ErrValidation, path, fmt.Errorf(parseMemberErrorTemplateConstant, member.MemberType, member.Name, parseError))
			}
			packageFiles[member.Name] = files
		}
		service.logger.Debug(memberParsedMessageConstant,
			zap.String(packageFieldNameConstant, member.Name),
			zap.String(memberTypeFieldNameConstant, string(member.MemberType)),
		)
	}

	for name := range packageFiles {
		if _, hasDesc := packageDescs[name]; !hasDesc {
			service.logger.Warn(orphanedFilesMessageConstant, zap.String(packageFieldNameConstant, name), zap.String(pathFieldNameConstant, path))
		}
	}

	packageBases := make(map[string]*models.OutputPackageBase)
	for _, name := range descOrder {
		desc := packageDescs[name]
		var files *models.Files
		if packageFileEntry, hasFiles := packageFiles[name]; hasFiles {
			files = &packageFileEntry
		}

		if existingBase, exists := packageBases[desc.Base]; exists {
			existingBase.Packages = append(existingBase.Packages, desc.OutputPackage(files))
			continue
		}
		packageBase := models.NewOutputPackageBase(desc, files)
		packageBases[desc.Base] = &packageBase
	}

	namedPackageBases := make([]NamedPackageBase, 0, len(packageBases))
	for name, packageBase := range packageBases {
		namedPackageBases = append(namedPackageBases, NamedPackageBase{Name: name, PackageBase: *packageBase})
	}
	sort.Slice(namedPackageBases, func(first int, second int) bool {
		return namedPackageBases[first].Name < namedPackageBases[second].Name
	})

	service.logger.Debug(databaseReadMessageConstant,
		zap.String(pathFieldNameConstant, path),
		zap.String(compressionFieldNameConstant, string(compression)),
		zap.Int(packageBasesFieldNameConstant, len(namedPackageBases)),
		zap.Int(packagesFieldNameConstant, len(descOrder)),
		zap.Int(archiveMembersFieldNameConstant, len(archive.Names())),
	)
	return namedPackageBases, nil
}

// DumpDBToJSONFiles writes one <pkgbase>.json document per pkgbase of the
// database at inputPath into the directory outputPath.
func (service *Service) DumpDBToJSONFiles(executionContext context.Context, inputPath string, outputPath string, compression defaults.Compression) error {
	if fileError := RequireFile(inputPath); fileError != nil {
		return fileError
	}
	if directoryError := RequireDirectory(outputPath); directoryError != nil {
		return directoryError
	}

	namedPackageBases, modelsError := service.DBFileAsModels(executionContext, inputPath, compression)
	if modelsError != nil {
		return modelsError
	}

	writeGroup, groupContext := errgroup.WithContext(executionContext)
	writeGroup.SetLimit(service.concurrency)
	for _, namedPackageBase := range namedPackageBases {
		writeGroup.Go(func() error {
			if contextError := groupContext.Err(); contextError != nil {
				return contextError
			}
			writtenPath, writeError := repodb.WritePackageBaseJSONFile(outputPath, namedPackageBase.PackageBase)
			if writeError != nil {
				return writeError
			}
			service.logger.Debug(jsonFileWrittenMessageConstant, zap.String(pathFieldNameConstant, writtenPath))
			return nil
		})
	}
	if waitError := writeGroup.Wait(); waitError != nil {
		return waitError
	}

	service.logger.Info(jsonFilesDumpedMessageConstant,
		zap.String(pathFieldNameConstant, inputPath),
		zap.String(outputDirectoryFieldNameConstant, outputPath),
		zap.Int(packageBasesFieldNameConstant, len(namedPackageBases)),
	)
	return nil
}

// ReadJSONFiles loads and validates every pkgbase document in inputPath.
// Documents are returned in file name order.
func (service *Service) ReadJSONFiles(executionContext context.Context, inputPath string) ([]models.OutputPackageBase, error) {
	if directoryError := RequireDirectory(inputPath); directoryError != nil {
		return nil, directoryError
	}

	jsonFiles, listError := repodb.JSONFilesInDirectory(inputPath)
	if listError != nil {
		return nil, listError
	}

	packageBases := make([]models.OutputPackageBase, len(jsonFiles))
	readGroup, groupContext := errgroup.WithContext(executionContext)
	readGroup.SetLimit(service.concurrency)
	for index, jsonFile := range jsonFiles {
		readGroup.Go(func() error {
			if contextError := groupContext.Err(); contextError != nil {
				return contextError
			}
			packageBase, readError := repodb.ReadPackageBaseJSONFile(jsonFile)
			if readError != nil {
				return readError
			}
			packageBases[index] = packageBase
			service.logger.Debug(jsonFileReadMessageConstant,
				zap.String(pathFieldNameConstant, jsonFile),
				zap.String(baseFieldNameConstant, packageBase.Base),
			)
			return nil
		})
	}
	if waitError := readGroup.Wait(); waitError != nil {
		return nil, waitError
	}

	service.logger.Debug(jsonFilesReadMessageConstant,
		zap.String(inputDirectoryFieldNameConstant, inputPath),
		zap.Int(packageBasesFieldNameConstant, len(packageBases)),
	)
	return packageBases, nil
}

// CreateDBFromJSONFiles writes a repository database at outputPath from the
// pkgbase documents in inputPath.
func (service *Service) CreateDBFromJSONFiles(executionContext context.Context, inputPath string, outputPath string, dbType defaults.RepoDbType, compression defaults.Compression) error {
	packageBases, readError := service.ReadJSONFiles(executionContext, inputPath)
	if readError != nil {
		return readError
	}

	packageBases = service.newestPackageBases(packageBases)
	if duplicateError := ensureUniquePackageNames(packageBases); duplicateError != nil {
		return duplicateError
	}

	sortedBases := sortPackageBases(packageBases)

	renderer, rendererError := convert.NewRepoDbFile()
	if rendererError != nil {
		return rendererError
	}

	writer, writerError := repodb.NewDBWriter(outputPath, compression, service.clock)
	if writerError != nil {
		return writerError
	}

	packageCount := 0
	for _, packageBase := range sortedBases {
		if contextError := executionContext.Err(); contextError != nil {
			writer.Abort()
			return contextError
		}
		if streamError := repodb.StreamPackageBaseToDB(writer, packageBase, renderer, dbType); streamError != nil {
			writer.Abort()
			return streamError
		}
		packageCount += len(packageBase.Packages)
	}
	if closeError := writer.Close(); closeError != nil {
		return closeError
	}

	service.logger.Info(databaseWrittenMessageConstant,
		zap.String(pathFieldNameConstant, writer.Path()),
		zap.String(inputDirectoryFieldNameConstant, inputPath),
		zap.String(databaseTypeFieldNameConstant, string(dbType)),
		zap.String(compressionFieldNameConstant, string(compression)),
		zap.Int(packageBasesFieldNameConstant, len(sortedBases)),
		zap.Int(packagesFieldNameConstant, packageCount),
	)
	return nil
}

// newestPackageBases keeps one document per pkgbase, preferring the newest
// version. Equal versions keep the document read first.
func (service *Service) newestPackageBases(packageBases []models.OutputPackageBase) []models.OutputPackageBase {
	positions := make(map[string]int, len(packageBases))
	newestBases := make([]models.OutputPackageBase, 0, len(packageBases))
	for _, packageBase := range packageBases {
		position, seen := positions[packageBase.Base]
		if !seen {
			positions[packageBase.Base] = len(newestBases)
			newestBases = append(newestBases, packageBase)
			continue
		}

		kept, ignored := newestBases[position], packageBase
		if models.Version(packageBase.Version).IsNewerThan(kept.Version) {
			kept, ignored = packageBase, newestBases[position]
			newestBases[position] = packageBase
		}
		service.logger.Warn(supersededBaseMessageConstant,
			zap.String(baseFieldNameConstant, packageBase.Base),
			zap.String(keptVersionFieldNameConstant, kept.Version),
			zap.String(ignoredVersionFieldNameConstant, ignored.Version),
		)
	}
	return newestBases
}

func ensureUniquePackageNames(packageBases []models.OutputPackageBase) error {
	owners := make(map[string]string)
	for _, packageBase := range packageBases {
		for _, outputPackage := range packageBase.Packages {
			if owner, claimed := owners[outputPackage.Name]; claimed {
				return repoerrors.Newf(repoerrors.ErrValidation, "", duplicatePackageTemplateConstant, outputPackage.Name, owner, packageBase.Base)
			}
			owners[outputPackage.Name] = packageBase.Base
		}
	}
	return nil
}

func sortPackageBases(packageBases []models.OutputPackageBase) []models.OutputPackageBase {
	sortedBases := make([]models.OutputPackageBase, 0, len(packageBases))
	for _, packageBase := range packageBases {
		sortedPackages := append([]models.OutputPackage(nil), packageBase.Packages...)
		sort.Slice(sortedPackages, func(first int, second int) bool {
			return sortedPackages[first].Name < sortedPackages[second].Name
		})
		packageBase.Packages = sortedPackages
		sortedBases = append(sortedBases, packageBase)
	}
	sort.SliceStable(sortedBases, func(first int, second int) bool {
		return sortedBases[first].Base < sortedBases[second].Base
	})
	return sortedBases
}

